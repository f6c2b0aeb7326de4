package executors

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/reusee/analyst/logs"
	"github.com/reusee/analyst/snippets"
)

// Executor runs approved snippets in a child process, one at a time.
type Executor struct {
	config Config
	logger logs.Logger
}

func New(config Config, logger logs.Logger) *Executor {
	return &Executor{
		config: config,
		logger: logger,
	}
}

func (Module) Executor(
	config Config,
	logger logs.Logger,
) *Executor {
	return New(config, logger)
}

func (e *Executor) interpreter(lang string) Interpreter {
	if interpreter, ok := e.config.Interpreters[strings.ToLower(lang)]; ok && len(interpreter.Command) > 0 {
		return interpreter
	}
	return e.config.Interpreters[""]
}

// Run writes snippet to a fresh private directory and runs it with the interpreter for its tag.
// The directory is removed before Run returns.
func (e *Executor) Run(ctx context.Context, snippet snippets.Snippet) (result Result) {
	result.Timeout = e.config.Timeout
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		e.logger.InfoContext(ctx, "run",
			"lang", snippet.Lang,
			"exchange", snippet.Exchange,
			"status", result.Status.String(),
			"exit_code", result.ExitCode,
			"duration", result.Duration,
			"truncated", result.Truncated,
		)
	}()

	spawnFailed := func(err error) Result {
		result.Status = StatusSpawnFailed
		result.ExitCode = -1
		result.Stderr = err.Error()
		return result
	}

	interpreter := e.interpreter(snippet.Lang)
	if len(interpreter.Command) == 0 {
		return spawnFailed(errors.New("no interpreter configured for language " + snippet.Lang))
	}

	dir, err := os.MkdirTemp("", "analyst-run-*")
	if err != nil {
		return spawnFailed(err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			e.logger.WarnContext(ctx, "remove artifact dir error", "dir", dir, "err", err)
		}
	}()

	artifact := filepath.Join(dir, "snippet"+interpreter.Ext)
	if err := os.WriteFile(artifact, []byte(snippet.Code), 0600); err != nil {
		return spawnFailed(err)
	}

	runCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	args := append(interpreter.Command[1:len(interpreter.Command):len(interpreter.Command)], artifact)
	cmd := exec.CommandContext(runCtx, interpreter.Command[0], args...)
	setProcessGroup(cmd)
	cmd.WaitDelay = e.config.WaitDelay

	var stdoutBuf, stderrBuf bytes.Buffer
	stdout := &limitedWriter{w: &stdoutBuf, max: e.config.MaxOutputBytes}
	stderr := &limitedWriter{w: &stderrBuf, max: e.config.MaxOutputBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err = cmd.Run()

	result.Stdout = stdoutBuf.String()
	result.Stderr = stderrBuf.String()
	result.Truncated = stdout.truncated || stderr.truncated

	switch {
	case err == nil:
		result.Status = StatusSucceeded
	case ctx.Err() != nil:
		result.Status = StatusInterrupted
		result.ExitCode = -1
	case runCtx.Err() != nil:
		result.Status = StatusTimedOut
		result.ExitCode = -1
	case cmd.ProcessState == nil:
		return spawnFailed(err)
	case cmd.ProcessState.Success():
		// exited cleanly but a descendant held the pipes past WaitDelay
		result.Status = StatusSucceeded
	default:
		result.Status = StatusFailed
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	return result
}
