package sessions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/reusee/analyst/completions"
	"github.com/reusee/analyst/consoles"
	"github.com/reusee/analyst/conversations"
	"github.com/reusee/analyst/corrections"
	"github.com/reusee/analyst/debugs"
	"github.com/reusee/analyst/executors"
	"github.com/reusee/analyst/gates"
	"github.com/reusee/analyst/logs"
	"github.com/reusee/analyst/snippets"
)

// Loop drives session until the operator ends it. Completion failures end only the current turn.
type Loop func(ctx context.Context, session *Session) error

func (Module) Loop(
	console consoles.Console,
	confirm gates.Confirm,
	executor *executors.Executor,
	sentinel Sentinel,
	logger logs.Logger,
	newSpan logs.NewSpan,
	tap debugs.Tap,
	inspect debugs.Inspect,
	newCorrector corrections.NewCorrector,
) Loop {

	var awaitInput Phase
	var complete func(question string) Phase
	var runSnippets func(list []snippets.Snippet) Phase

	awaitInput = func(ctx context.Context, session *Session) (Phase, error) {
		input, err := console.Prompt("User: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}

		if sentinel.Matches(input) {
			fmt.Fprintln(console, "Exiting the conversation. Goodbye!")
			return nil, nil
		}

		question := strings.TrimSpace(input)
		switch question {

		case "":
			return awaitInput, nil

		case "/tap":
			tap(ctx, "session", sessionGlobals(session))
			return awaitInput, nil

		case "/history":
			fmt.Fprintf(console, "%d exchanges\n", session.History.Len())
			return awaitInput, nil

		}

		if expr, ok := strings.CutPrefix(question, "/inspect "); ok {
			value, err := inspect(ctx, expr, sessionGlobals(session))
			if err != nil {
				fmt.Fprintf(console, "Error: %v\n", err)
			} else {
				fmt.Fprintln(console, value)
			}
			return awaitInput, nil
		}

		return complete(input), nil
	}

	complete = func(question string) Phase {
		return func(ctx context.Context, session *Session) (Phase, error) {
			ctx, _ = newSpan(ctx, "")

			answer, err := session.Client.Complete(ctx, completions.Request{
				Turns:    session.History.BuildContext(question),
				Sampling: session.Sampling,
			})
			if err != nil {
				var serviceErr *completions.ServiceError
				if errors.As(err, &serviceErr) {
					logger.WarnContext(ctx, "completion failed", "err", err)
					fmt.Fprintf(console, "Error: %v\n", err)
					return awaitInput, nil
				}
				return nil, logs.WrapSpan(ctx, err)
			}

			fmt.Fprintf(console, "Assistant: %s\n", answer)
			if err := session.History.Append(question, answer); err != nil {
				if errors.Is(err, conversations.ErrInvalidState) {
					fmt.Fprintf(console, "Error: %v\n", err)
					return awaitInput, nil
				}
				return nil, logs.WrapSpan(ctx, err)
			}

			found := snippets.Extract(answer, session.History.Len()-1)
			if len(found) == 0 {
				return awaitInput, nil
			}
			logger.InfoContext(ctx, "snippets", "count", len(found))
			fmt.Fprintln(console, "Code detected. Executing...")
			return runSnippets(found), nil
		}
	}

	runSnippets = func(list []snippets.Snippet) Phase {
		return func(ctx context.Context, session *Session) (Phase, error) {
			if len(list) == 0 {
				return awaitInput, nil
			}
			snippet := list[0]
			next := runSnippets(list[1:])

			approved, err := confirm(ctx, snippet)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil, nil
				}
				return nil, err
			}
			if !approved {
				fmt.Fprintf(console, "Execution Result:\n%s\n", skippedReport)
				return next, nil
			}

			result := executor.Run(ctx, snippet)
			if err := ctx.Err(); err != nil {
				// interrupted: report what was captured, skip correction
				fmt.Fprintf(console, "Execution Result:\n%s\n", Report(result, nil))
				return nil, err
			}

			var record *corrections.Record
			if result.NeedsCorrection() {
				fmt.Fprintln(console, "Error detected in execution.")
				r := newCorrector(session.Client, session.Sampling).
					SuggestFix(ctx, session.History, snippet, result)
				if r.Err == nil {
					fmt.Fprintf(console, "\nLLM Suggested Fix:\n%s\n", r.Suggestion)
				}
				record = &r
			} else if result.Status == executors.StatusSucceeded {
				fmt.Fprintln(console, "Execution successful!")
			}

			fmt.Fprintf(console, "Execution Result:\n%s\n", Report(result, record))
			return next, nil
		}
	}

	return func(ctx context.Context, session *Session) (err error) {
		defer func() {
			session.Ended = true
			logger.InfoContext(ctx, "session ended",
				"session", session.ID.String(),
				"exchanges", session.History.Len(),
			)
		}()

		for phase := awaitInput; phase != nil; {
			if err := ctx.Err(); err != nil {
				return err
			}
			phase, err = phase(ctx, session)
			if err != nil {
				return err
			}
		}
		return nil
	}
}

func sessionGlobals(session *Session) map[string]any {
	return map[string]any{
		"session_id":  session.ID.String(),
		"model":       session.Client.Args().Model,
		"instruction": session.History.Instruction(),
		"sampling":    session.Sampling,
		"exchanges":   exchangesToMaps(session.History.Exchanges()),
	}
}

func exchangesToMaps(exchanges []conversations.Exchange) []any {
	ret := make([]any, 0, len(exchanges))
	for _, exchange := range exchanges {
		ret = append(ret, map[string]any{
			"question": exchange.Question,
			"answer":   exchange.Answer,
		})
	}
	return ret
}
