package executors

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/reusee/analyst/configs"
	"github.com/reusee/analyst/logs"
	"github.com/reusee/analyst/modes"
	"github.com/reusee/analyst/snippets"
	"github.com/reusee/dscope"
)

func newTestExecutor(t *testing.T, fn func(*Config)) *Executor {
	config := DefaultConfig()
	config.Timeout = 10 * time.Second
	if fn != nil {
		fn(&config)
	}
	var executor *Executor
	dscope.New(
		modes.ForTest(t),
		dscope.Provide(configs.NewLoader(nil, "")),
		new(Module),
	).Call(func(
		logger logs.Logger,
	) {
		executor = New(config, logger)
	})
	return executor
}

func TestRunSucceeded(t *testing.T) {
	executor := newTestExecutor(t, nil)
	result := executor.Run(t.Context(), snippets.Snippet{
		Lang: "sh",
		Code: "echo hello\n",
	})
	if result.Status != StatusSucceeded {
		t.Fatalf("got %+v", result)
	}
	if result.ExitCode != 0 || result.Stdout != "hello\n" || result.Stderr != "" {
		t.Fatalf("got %+v", result)
	}
	if result.NeedsCorrection() {
		t.Fatal("should not need correction")
	}
}

func TestRunFailed(t *testing.T) {
	executor := newTestExecutor(t, nil)
	result := executor.Run(t.Context(), snippets.Snippet{
		Lang: "sh",
		Code: "echo partial\necho boom >&2\nexit 3\n",
	})
	if result.Status != StatusFailed {
		t.Fatalf("got %+v", result)
	}
	if result.ExitCode != 3 {
		t.Fatalf("got %d", result.ExitCode)
	}
	if result.Stdout != "partial\n" || result.Stderr != "boom\n" {
		t.Fatalf("got %+v", result)
	}
	if !result.NeedsCorrection() {
		t.Fatal("should need correction")
	}
}

func TestRunTimedOut(t *testing.T) {
	executor := newTestExecutor(t, func(config *Config) {
		config.Timeout = 300 * time.Millisecond
	})
	start := time.Now()
	result := executor.Run(t.Context(), snippets.Snippet{
		Lang: "sh",
		// the background child shares the pipes and must die with the group
		Code: "echo started\nsleep 30 &\nsleep 30\n",
	})
	if time.Since(start) > 5*time.Second {
		t.Fatalf("took %v", time.Since(start))
	}
	if result.Status != StatusTimedOut {
		t.Fatalf("got %+v", result)
	}
	if result.Stdout != "started\n" {
		t.Fatalf("got %q", result.Stdout)
	}
	if result.Timeout != 300*time.Millisecond {
		t.Fatalf("got %v", result.Timeout)
	}
	if !result.NeedsCorrection() {
		t.Fatal("should need correction")
	}
}

func TestRunCanceled(t *testing.T) {
	executor := newTestExecutor(t, nil)
	ctx, cancel := context.WithTimeout(t.Context(), 200*time.Millisecond)
	defer cancel()
	result := executor.Run(ctx, snippets.Snippet{
		Lang: "sh",
		Code: "echo started\nsleep 30\n",
	})
	if result.Status != StatusInterrupted {
		t.Fatalf("got %+v", result)
	}
	if result.Stdout != "started\n" {
		t.Fatalf("got %q", result.Stdout)
	}
	if result.NeedsCorrection() {
		t.Fatal("interrupted run should not be corrected")
	}
}

func TestRunSpawnFailed(t *testing.T) {
	executor := newTestExecutor(t, func(config *Config) {
		config.Interpreters["nope"] = Interpreter{
			Command: []string{"/nonexistent/interpreter"},
			Ext:     ".txt",
		}
	})
	result := executor.Run(t.Context(), snippets.Snippet{
		Lang: "nope",
		Code: "anything",
	})
	if result.Status != StatusSpawnFailed {
		t.Fatalf("got %+v", result)
	}
	if result.ExitCode != -1 || result.Stderr == "" {
		t.Fatalf("got %+v", result)
	}
	if result.NeedsCorrection() {
		t.Fatal("spawn failures are not corrected")
	}
}

func TestRunTruncated(t *testing.T) {
	executor := newTestExecutor(t, func(config *Config) {
		config.MaxOutputBytes = 10
	})
	result := executor.Run(t.Context(), snippets.Snippet{
		Lang: "sh",
		Code: "printf 0123456789abcdef\n",
	})
	if result.Status != StatusSucceeded {
		t.Fatalf("got %+v", result)
	}
	if !result.Truncated || result.Stdout != "0123456789" {
		t.Fatalf("got %+v", result)
	}
}

func TestRunArtifactRemoved(t *testing.T) {
	executor := newTestExecutor(t, nil)
	result := executor.Run(t.Context(), snippets.Snippet{
		Lang: "sh",
		Code: "echo \"$0\"\npwd\n",
	})
	if result.Status != StatusSucceeded {
		t.Fatalf("got %+v", result)
	}
	lines := strings.Split(strings.TrimSpace(result.Stdout), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %q", result.Stdout)
	}

	artifact := lines[0]
	if filepath.Base(artifact) != "snippet.sh" {
		t.Fatalf("got %s", artifact)
	}
	if _, err := os.Stat(filepath.Dir(artifact)); !os.IsNotExist(err) {
		t.Fatalf("artifact dir should be removed, got %v", err)
	}

	// runs in the operator's working directory
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	wd, _ = filepath.EvalSymlinks(wd)
	if got, _ := filepath.EvalSymlinks(lines[1]); got != wd {
		t.Fatalf("got %s, want %s", got, wd)
	}
}

func TestRunPython(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not found")
	}
	executor := newTestExecutor(t, nil)

	result := executor.Run(t.Context(), snippets.Snippet{
		Lang: "python",
		Code: "print(\"hello\")\n",
	})
	if result.Status != StatusSucceeded || result.Stdout != "hello\n" || result.Stderr != "" {
		t.Fatalf("got %+v", result)
	}

	// unknown tags use the default interpreter
	result = executor.Run(t.Context(), snippets.Snippet{
		Lang: "cobol",
		Code: "1/0\n",
	})
	if result.Status != StatusFailed {
		t.Fatalf("got %+v", result)
	}
	if !strings.Contains(result.Stderr, "ZeroDivisionError") {
		t.Fatalf("got %q", result.Stderr)
	}
}

func TestConfig(t *testing.T) {
	dscope.New(
		modes.ForTest(t),
		dscope.Provide(configs.NewLoader([]string{"testdata/executors.cue"}, "")),
		new(Module),
	).Call(func(
		config Config,
		executor *Executor,
	) {
		if config.Timeout != 2*time.Second {
			t.Fatalf("got %v", config.Timeout)
		}
		if config.MaxOutputBytes != 4096 {
			t.Fatalf("got %v", config.MaxOutputBytes)
		}
		if got := config.Interpreters["shell"].Command; len(got) != 2 || got[0] != "bash" {
			t.Fatalf("got %v", got)
		}
		if got := config.Interpreters["awk"].Ext; got != ".awk" {
			t.Fatalf("got %v", got)
		}
		if got := executor.interpreter("PYTHON").Command[0]; got != "python3" {
			t.Fatalf("got %v", got)
		}
		if got := executor.interpreter("whatever").Ext; got != ".py" {
			t.Fatalf("got %v", got)
		}
	})
}

func TestStatusString(t *testing.T) {
	if StatusTimedOut.String() != "timed out" {
		t.Fatal()
	}
	if StatusInterrupted.String() != "interrupted" {
		t.Fatal()
	}
	if Status(42).String() != "Status(42)" {
		t.Fatal()
	}
}
