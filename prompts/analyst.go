package prompts

const Analyst = (`
Use the EMG dataset for developing motion decoding models. Col 1 is labels, and the other columns are the corresponding EMG data.
`)

const CodeProtocol = (`
Code you want the user to run adheres to the following protocol:
- Put each runnable program in its own fenced block, tagged with its language, e.g. ` + "```python" + `.
- Every block is run as a standalone file in the user's working directory, after the user confirms it.
- Print the results you need to see; only standard output and standard error are reported back.
- Do not fence code that is not meant to be run.
`)
