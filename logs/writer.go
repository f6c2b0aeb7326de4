package logs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/reusee/analyst/cmds"
)

type Writer io.Writer

var logFileFlag = cmds.Var[string]("-log-file", "append logs to file instead of stderr")

var logFiles struct {
	sync.Mutex
	files map[string]*os.File
}

// Writer keeps logs off the operator's stdout. With -log-file they leave the terminal entirely.
func (Module) Writer() Writer {
	if *logFileFlag == "" {
		return os.Stderr
	}
	f, err := openLogFile(*logFileFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		return os.Stderr
	}
	return f
}

// openLogFile opens path once. Later scopes share the handle.
func openLogFile(path string) (*os.File, error) {
	logFiles.Lock()
	defer logFiles.Unlock()
	if f, ok := logFiles.files[path]; ok {
		return f, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	if logFiles.files == nil {
		logFiles.files = make(map[string]*os.File)
	}
	logFiles.files[path] = f
	return f, nil
}

// CloseFiles closes every log file opened by Writer.
func CloseFiles() error {
	logFiles.Lock()
	defer logFiles.Unlock()
	var errs []error
	for path, f := range logFiles.files {
		if err := f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", path, err))
		}
		delete(logFiles.files, path)
	}
	return errors.Join(errs...)
}
