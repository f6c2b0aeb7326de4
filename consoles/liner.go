package consoles

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/reusee/analyst/logs"
)

type linerConsole struct {
	line        *liner.State
	historyFile string
	logger      logs.Logger
}

var _ Console = new(linerConsole)

func newLinerConsole(historyFile string, logger logs.Logger) *linerConsole {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			if _, err := line.ReadHistory(f); err != nil {
				logger.Warn("read history error", "err", err)
			}
			f.Close()
		}
	}

	return &linerConsole{
		line:        line,
		historyFile: historyFile,
		logger:      logger,
	}
}

func (l *linerConsole) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (l *linerConsole) Prompt(prompt string) (string, error) {
	input, err := l.line.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		l.line.AppendHistory(input)
	}
	return input, nil
}

func (l *linerConsole) Close() error {
	defer l.line.Close()
	if l.historyFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.historyFile), 0755); err != nil {
		return err
	}
	f, err := os.Create(l.historyFile)
	if err != nil {
		return err
	}
	if _, err := l.line.WriteHistory(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
