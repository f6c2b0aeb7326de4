package consoles

import (
	"io"
	"os"
	"path/filepath"

	"github.com/reusee/analyst/configs"
	"github.com/reusee/analyst/logs"
	"golang.org/x/term"
)

// Console is the operator side of a session.
// Prompt returns io.EOF when the operator closes input or aborts the prompt.
type Console interface {
	io.Writer
	Prompt(prompt string) (string, error)
	Close() error
}

type HistoryFile string

func (Module) HistoryFile(
	loader configs.Loader,
) HistoryFile {
	if path := configs.First[HistoryFile](loader, "history_file"); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return HistoryFile(filepath.Join(dir, "analyst-history"))
}

func (Module) Console(
	historyFile HistoryFile,
	logger logs.Logger,
) Console {
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		return newLinerConsole(string(historyFile), logger)
	}
	return NewPlain(os.Stdin, os.Stdout)
}
