package logs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reusee/dscope"
)

func TestWriterLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyst.log")
	saved := *logFileFlag
	*logFileFlag = path
	t.Cleanup(func() {
		*logFileFlag = saved
	})

	var writers []Writer
	for range 2 {
		dscope.New(new(Module)).Call(func(
			writer Writer,
			logger Logger,
		) {
			writers = append(writers, writer)
			logger.Info("run", "status", "succeeded")
		})
	}
	if writers[0] != writers[1] {
		t.Fatal("log file opened more than once")
	}

	if err := CloseFiles(); err != nil {
		t.Fatal(err)
	}
	if _, err := writers[0].Write([]byte("late\n")); err == nil {
		t.Fatal("file should be closed")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(content), "status=succeeded"); n != 2 {
		t.Fatalf("got %d lines in %q", n, content)
	}

	// reopened after close
	dscope.New(new(Module)).Call(func(writer Writer) {
		if writer == writers[0] {
			t.Fatal("closed handle reused")
		}
	})
	if err := CloseFiles(); err != nil {
		t.Fatal(err)
	}
}
