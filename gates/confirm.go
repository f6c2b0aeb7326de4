package gates

import (
	"context"
	"fmt"
	"strings"

	"github.com/reusee/analyst/consoles"
	"github.com/reusee/analyst/logs"
	"github.com/reusee/analyst/snippets"
)

// Confirm shows snippet to the operator and reports whether it may run.
// Only a case-insensitive "yes" approves.
type Confirm func(ctx context.Context, snippet snippets.Snippet) (bool, error)

func (Module) Confirm(
	console consoles.Console,
	logger logs.Logger,
) Confirm {
	return func(ctx context.Context, snippet snippets.Snippet) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		code := strings.TrimRight(snippet.Code, "\n")
		if _, err := fmt.Fprintf(console, "\nThe following code was detected:\n\n%s\n", code); err != nil {
			return false, err
		}

		input, err := console.Prompt("\nDo you want to execute this code? (yes/no): ")
		if err != nil {
			return false, err
		}
		approved := Approves(input)
		logger.InfoContext(ctx, "confirm",
			"lang", snippet.Lang,
			"exchange", snippet.Exchange,
			"approved", approved,
		)
		if !approved {
			if _, err := fmt.Fprintln(console, "Code execution aborted."); err != nil {
				return false, err
			}
		}
		return approved, nil
	}
}

func Approves(input string) bool {
	return strings.ToLower(strings.TrimSpace(input)) == "yes"
}
