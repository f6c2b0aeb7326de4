package prompts

// Correction is formatted with the language name, the language tag, the code and the error output.
const Correction = "The following %s code resulted in an error. Please identify the issue and suggest a corrected version:\n\nCode:\n```%s\n%s\n```\n\nError Message:\n%s"
