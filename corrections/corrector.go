package corrections

import (
	"context"
	"fmt"

	"github.com/reusee/analyst/completions"
	"github.com/reusee/analyst/conversations"
	"github.com/reusee/analyst/executors"
	"github.com/reusee/analyst/logs"
	"github.com/reusee/analyst/prompts"
	"github.com/reusee/analyst/snippets"
)

// Record is the outcome of one correction request. It is shown to the operator and never stored in history.
type Record struct {
	Snippet    snippets.Snippet
	Result     executors.Result
	Prompt     string
	Suggestion string
	Err        error
}

// Corrector asks the model once for a fix of a failed run. The fix is never executed.
type Corrector struct {
	client   completions.Client
	sampling completions.Sampling
	logger   logs.Logger
}

func New(client completions.Client, sampling completions.Sampling, logger logs.Logger) *Corrector {
	return &Corrector{
		client:   client,
		sampling: sampling,
		logger:   logger,
	}
}

// NewCorrector binds a corrector to the client and sampling of one session.
type NewCorrector func(client completions.Client, sampling completions.Sampling) *Corrector

func (Module) NewCorrector(
	logger logs.Logger,
) NewCorrector {
	return func(client completions.Client, sampling completions.Sampling) *Corrector {
		return New(client, sampling, logger)
	}
}

func (c *Corrector) SuggestFix(
	ctx context.Context,
	history *conversations.History,
	snippet snippets.Snippet,
	result executors.Result,
) Record {
	prompt := Prompt(snippet, result)
	record := Record{
		Snippet: snippet,
		Result:  result,
		Prompt:  prompt,
	}

	suggestion, err := c.client.Complete(ctx, completions.Request{
		Turns:    history.BuildContext(prompt),
		Sampling: c.sampling,
	})
	if err != nil {
		c.logger.WarnContext(ctx, "correction failed", "err", err)
		record.Err = err
		return record
	}
	record.Suggestion = suggestion
	return record
}

// Prompt renders the correction request for a failed or timed out run.
func Prompt(snippet snippets.Snippet, result executors.Result) string {
	tag := snippet.Lang
	if tag == "" {
		tag = "python"
	}
	message := result.Stderr
	if result.Status == executors.StatusTimedOut {
		message += fmt.Sprintf("\nExecution timed out after %v.", result.Timeout)
	}
	return fmt.Sprintf(prompts.Correction, languageName(tag), tag, snippet.Code, message)
}

var languageNames = map[string]string{
	"python":     "Python",
	"python3":    "Python",
	"py":         "Python",
	"sh":         "shell",
	"shell":      "shell",
	"bash":       "Bash",
	"go":         "Go",
	"js":         "JavaScript",
	"javascript": "JavaScript",
}

func languageName(tag string) string {
	if name, ok := languageNames[tag]; ok {
		return name
	}
	return tag
}
