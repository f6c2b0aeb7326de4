package sessions

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/reusee/analyst/appconfigs"
	"github.com/reusee/analyst/completions"
	"github.com/reusee/analyst/configs"
	"github.com/reusee/analyst/consoles"
	"github.com/reusee/analyst/corrections"
	"github.com/reusee/analyst/executors"
	"github.com/reusee/analyst/modes"
	"github.com/reusee/analyst/snippets"
	"github.com/reusee/dscope"
)

type step struct {
	answer string
	err    error
}

type fakeClient struct {
	steps    []step
	requests []completions.Request
}

var _ completions.Client = new(fakeClient)

func (f *fakeClient) Args() completions.ClientArgs {
	return completions.ClientArgs{Model: "fake"}
}

func (f *fakeClient) Complete(ctx context.Context, req completions.Request) (string, error) {
	f.requests = append(f.requests, req)
	i := len(f.requests) - 1
	if i >= len(f.steps) {
		return "", &completions.ServiceError{
			Provider: "fake",
			Model:    "fake",
			Err:      errors.New("unexpected request"),
		}
	}
	return f.steps[i].answer, f.steps[i].err
}

func (f *fakeClient) lastQuestion() string {
	turns := f.requests[len(f.requests)-1].Turns
	return turns[len(turns)-1].Text
}

type testRun struct {
	session *Session
	client  *fakeClient
	output  string
	err     error
}

func runSession(
	t *testing.T,
	script string,
	steps []step,
	configure func(*executors.Config),
) testRun {
	t.Helper()
	return runSessionContext(t.Context(), t, script, steps, configure)
}

func runSessionContext(
	ctx context.Context,
	t *testing.T,
	script string,
	steps []step,
	configure func(*executors.Config),
) testRun {
	t.Helper()

	out := new(bytes.Buffer)
	console := consoles.NewPlain(strings.NewReader(script), out)
	client := &fakeClient{steps: steps}
	config := executors.DefaultConfig()
	config.Timeout = 10 * time.Second
	if configure != nil {
		configure(&config)
	}

	var run testRun
	dscope.New(
		modes.ForTest(t),
		dscope.Provide(configs.NewLoader(nil, appconfigs.Schema)),
		new(Module),
	).Fork(
		func() consoles.Console {
			return console
		},
		func() completions.GetDefaultClient {
			return func() (completions.Client, error) {
				return client, nil
			}
		},
		func() executors.Config {
			return config
		},
	).Call(func(
		newSession NewSession,
		loop Loop,
	) {
		session, err := newSession()
		if err != nil {
			t.Fatal(err)
		}
		run.session = session
		run.err = loop(ctx, session)
	})

	run.client = client
	run.output = out.String()
	if !run.session.Ended {
		t.Fatal("session should be ended")
	}
	return run
}

func requirePython(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not found")
	}
}

func TestPrintHello(t *testing.T) {
	requirePython(t)
	run := runSession(t,
		"print hello\nyes\nexit\n",
		[]step{
			{answer: "Here you go:\n```python\nprint(\"hello\")\n```\n"},
		},
		nil,
	)
	if run.err != nil {
		t.Fatal(run.err)
	}
	if len(run.client.requests) != 1 {
		t.Fatalf("corrector should not be called, got %d requests", len(run.client.requests))
	}
	if !strings.Contains(run.output, "Code detected. Executing...\n") {
		t.Fatalf("got %q", run.output)
	}
	if !strings.Contains(run.output, "Execution Result:\nhello\n") {
		t.Fatalf("got %q", run.output)
	}
	if run.session.History.Len() != 1 {
		t.Fatalf("got %d", run.session.History.Len())
	}
}

func TestDivisionByZero(t *testing.T) {
	requirePython(t)
	run := runSession(t,
		"divide\nyes\nexit\n",
		[]step{
			{answer: "```python\n1/0\n```"},
			{answer: "Use a non-zero divisor:\n```python\nprint(1/1)\n```"},
		},
		nil,
	)
	if run.err != nil {
		t.Fatal(run.err)
	}
	if len(run.client.requests) != 2 {
		t.Fatalf("got %d requests", len(run.client.requests))
	}

	prompt := run.client.lastQuestion()
	if !strings.Contains(prompt, "Code:\n```python\n1/0\n\n```") {
		t.Fatalf("got %q", prompt)
	}
	if !strings.Contains(prompt, "ZeroDivisionError: division by zero") {
		t.Fatalf("got %q", prompt)
	}
	if !strings.Contains(run.output, "LLM Suggestion:\nUse a non-zero divisor:") {
		t.Fatalf("got %q", run.output)
	}

	// the suggestion is shown, not executed
	if n := strings.Count(run.output, "Execution Result:"); n != 1 {
		t.Fatalf("got %d results", n)
	}
	if strings.Contains(run.output, "Execution Result:\n1.0") {
		t.Fatalf("got %q", run.output)
	}
	// and not stored
	if run.session.History.Len() != 1 {
		t.Fatalf("got %d", run.session.History.Len())
	}
}

func TestShellSucceeded(t *testing.T) {
	run := runSession(t,
		"say hello\n YES \nexit\n",
		[]step{
			{answer: "```sh\necho hello\n```"},
		},
		nil,
	)
	if run.err != nil {
		t.Fatal(run.err)
	}
	if len(run.client.requests) != 1 {
		t.Fatalf("got %d requests", len(run.client.requests))
	}
	if !strings.Contains(run.output, "Execution successful!\nExecution Result:\nhello\n") {
		t.Fatalf("got %q", run.output)
	}
}

func TestShellFailedCorrectedOnce(t *testing.T) {
	code := "echo boom >&2\nexit 2\n"
	run := runSession(t,
		"fail\nyes\nexit\n",
		[]step{
			{answer: "```sh\n" + code + "```"},
			{answer: "remove the exit"},
		},
		nil,
	)
	if run.err != nil {
		t.Fatal(run.err)
	}
	if len(run.client.requests) != 2 {
		t.Fatalf("got %d requests", len(run.client.requests))
	}

	want := corrections.Prompt(
		snippets.Snippet{Lang: "sh", Code: code},
		executors.Result{Status: executors.StatusFailed, Stderr: "boom\n"},
	)
	if diff := cmp.Diff(want, run.client.lastQuestion()); diff != "" {
		t.Fatal(diff)
	}
	// correction context is the history so far
	if n := len(run.client.requests[1].Turns); n != 4 {
		t.Fatalf("got %d turns", n)
	}
	if !strings.Contains(run.output, "Error detected in execution.\n\nLLM Suggested Fix:\nremove the exit\nExecution Result:\n") {
		t.Fatalf("got %q", run.output)
	}
	if !strings.Contains(run.output, "Execution failed:\nboom\n\n\nLLM Suggestion:\nremove the exit\n") {
		t.Fatalf("got %q", run.output)
	}
	if strings.Contains(run.output, "Execution successful!") {
		t.Fatalf("got %q", run.output)
	}
}

func TestDeclined(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "ran")
	for _, input := range []string{"no", "y", "", "yes please"} {
		run := runSession(t,
			"touch it\n"+input+"\nexit\n",
			[]step{
				{answer: "```sh\ntouch " + marker + "\n```"},
			},
			nil,
		)
		if run.err != nil {
			t.Fatal(run.err)
		}
		if _, err := os.Stat(marker); !os.IsNotExist(err) {
			t.Fatalf("%q: should not execute", input)
		}
		if !strings.Contains(run.output, "Execution Result:\nExecution skipped by user.\n") {
			t.Fatalf("got %q", run.output)
		}
		// back to awaiting input
		if !strings.HasSuffix(run.output, "User: Exiting the conversation. Goodbye!\n") {
			t.Fatalf("got %q", run.output)
		}
		if len(run.client.requests) != 1 {
			t.Fatalf("got %d requests", len(run.client.requests))
		}
	}
}

func TestSentinel(t *testing.T) {
	for _, input := range []string{"exit", "EXIT", "  Exit \t"} {
		run := runSession(t, input+"\nnever sent\n", nil, nil)
		if run.err != nil {
			t.Fatal(run.err)
		}
		if len(run.client.requests) != 0 {
			t.Fatalf("%q: got %d requests", input, len(run.client.requests))
		}
		if run.session.History.Len() != 0 {
			t.Fatal("should not record")
		}
	}
}

func TestEndOfInput(t *testing.T) {
	run := runSession(t, "", nil, nil)
	if run.err != nil {
		t.Fatal(run.err)
	}
	if len(run.client.requests) != 0 {
		t.Fatal("should not complete")
	}

	// end of input at the gate
	run = runSession(t,
		"run\n",
		[]step{
			{answer: "```sh\necho hi\n```"},
		},
		nil,
	)
	if run.err != nil {
		t.Fatal(run.err)
	}
	if strings.Contains(run.output, "Execution Result:") {
		t.Fatalf("got %q", run.output)
	}
}

func TestServiceErrorEndsTurn(t *testing.T) {
	run := runSession(t,
		"q1\nq2\nexit\n",
		[]step{
			{err: &completions.ServiceError{
				Provider:   "fake",
				Model:      "fake",
				StatusCode: 429,
				Err:        errors.New("quota exceeded"),
			}},
			{answer: "no code here"},
		},
		nil,
	)
	if run.err != nil {
		t.Fatal(run.err)
	}
	if !strings.Contains(run.output, "Error: fake fake: status 429: quota exceeded\n") {
		t.Fatalf("got %q", run.output)
	}
	if len(run.client.requests) != 2 {
		t.Fatalf("got %d requests", len(run.client.requests))
	}
	// the failed question is not stored
	exchanges := run.session.History.Exchanges()
	if len(exchanges) != 1 || exchanges[0].Question != "q2" {
		t.Fatalf("got %+v", exchanges)
	}
	if n := len(run.client.requests[1].Turns); n != 2 {
		t.Fatalf("got %d turns", n)
	}
}

func TestOtherErrorEndsSession(t *testing.T) {
	fatal := errors.New("broken")
	run := runSession(t,
		"q1\nq2\nexit\n",
		[]step{
			{err: fatal},
		},
		nil,
	)
	if !errors.Is(run.err, fatal) {
		t.Fatalf("got %v", run.err)
	}
	if len(run.client.requests) != 1 {
		t.Fatalf("got %d requests", len(run.client.requests))
	}
}

func TestSnippetsInOrder(t *testing.T) {
	run := runSession(t,
		"two\nno\nyes\nexit\n",
		[]step{
			{answer: "```sh\necho first\n```\nthen\n```sh\necho second\n```"},
		},
		nil,
	)
	if run.err != nil {
		t.Fatal(run.err)
	}
	skipped := strings.Index(run.output, "Execution skipped by user.")
	second := strings.Index(run.output, "Execution Result:\nsecond\n")
	if skipped < 0 || second < 0 || skipped > second {
		t.Fatalf("got %q", run.output)
	}
	if strings.Contains(run.output, "Execution Result:\nfirst") {
		t.Fatalf("got %q", run.output)
	}
}

func TestTimedOut(t *testing.T) {
	run := runSession(t,
		"wait\nyes\nexit\n",
		[]step{
			{answer: "```sh\nsleep 30\n```"},
			{answer: "do not sleep"},
		},
		func(config *executors.Config) {
			config.Timeout = 200 * time.Millisecond
		},
	)
	if run.err != nil {
		t.Fatal(run.err)
	}
	if !strings.Contains(run.output, "Execution timed out after 200ms:\n") {
		t.Fatalf("got %q", run.output)
	}
	if !strings.Contains(run.output, "LLM Suggestion:\ndo not sleep") {
		t.Fatalf("got %q", run.output)
	}
	if len(run.client.requests) != 2 {
		t.Fatalf("got %d requests", len(run.client.requests))
	}
}

func TestSpawnFailedNotCorrected(t *testing.T) {
	run := runSession(t,
		"run\nyes\nexit\n",
		[]step{
			{answer: "```missing\nwhatever\n```"},
		},
		func(config *executors.Config) {
			config.Interpreters["missing"] = executors.Interpreter{
				Command: []string{"/nonexistent/interpreter"},
			}
		},
	)
	if run.err != nil {
		t.Fatal(run.err)
	}
	if !strings.Contains(run.output, "Execution Result:\nExecution failed: ") {
		t.Fatalf("got %q", run.output)
	}
	if len(run.client.requests) != 1 {
		t.Fatalf("got %d requests", len(run.client.requests))
	}
}

func TestHistoryCommand(t *testing.T) {
	run := runSession(t,
		"hi\n/history\nexit\n",
		[]step{
			{answer: "hello"},
		},
		nil,
	)
	if run.err != nil {
		t.Fatal(run.err)
	}
	if !strings.Contains(run.output, "Assistant: hello\n") {
		t.Fatalf("got %q", run.output)
	}
	if !strings.Contains(run.output, "1 exchanges\n") {
		t.Fatalf("got %q", run.output)
	}
	if len(run.client.requests) != 1 {
		t.Fatalf("got %d requests", len(run.client.requests))
	}
}

func TestContextAcrossTurns(t *testing.T) {
	run := runSession(t,
		"q1\nq2\nq3\nexit\n",
		[]step{
			{answer: "a1"},
			{answer: "a2"},
			{answer: "a3"},
		},
		nil,
	)
	if run.err != nil {
		t.Fatal(run.err)
	}
	last := run.client.requests[2].Turns
	var texts []string
	for _, turn := range last {
		texts = append(texts, string(turn.Role)+":"+turn.Text)
	}
	want := []string{
		"system:" + run.session.History.Instruction(),
		"user:q1", "assistant:a1",
		"user:q2", "assistant:a2",
		"user:q3",
	}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Fatal(diff)
	}
	if *run.client.requests[0].Sampling.MaxTokens != 2048 {
		t.Fatal("sampling should be forwarded")
	}
}

func TestInspectCommand(t *testing.T) {
	run := runSession(t,
		"q1\n/inspect exchanges[0]['answer']\n/inspect model\n/inspect sampling['max_tokens']\n/inspect nope(\nexit\n",
		[]step{
			{answer: "a1"},
		},
		nil,
	)
	if run.err != nil {
		t.Fatal(run.err)
	}
	if !strings.Contains(run.output, "User: a1\nUser: fake\nUser: 2048\nUser: Error: ") {
		t.Fatalf("got %q", run.output)
	}
	if len(run.client.requests) != 1 {
		t.Fatalf("got %d requests", len(run.client.requests))
	}
}

func TestInterruptedDuringExecution(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), 500*time.Millisecond)
	defer cancel()
	run := runSessionContext(ctx, t,
		"wait\nyes\nnext question\n",
		[]step{
			{answer: "```sh\necho started\nsleep 30\n```"},
		},
		nil,
	)
	if !errors.Is(run.err, context.DeadlineExceeded) {
		t.Fatalf("got %v", run.err)
	}
	if !strings.Contains(run.output, "Execution interrupted:\nstarted\n") {
		t.Fatalf("got %q", run.output)
	}
	if strings.Contains(run.output, "Error detected in execution.") {
		t.Fatalf("got %q", run.output)
	}
	if len(run.client.requests) != 1 {
		t.Fatalf("got %d requests", len(run.client.requests))
	}
}
