package executors

import (
	"maps"
	"strings"
	"time"

	"github.com/reusee/analyst/cmds"
	"github.com/reusee/analyst/configs"
	"github.com/reusee/analyst/logs"
)

// Interpreter runs an artifact: Command followed by the artifact path.
type Interpreter struct {
	Command []string `json:"command"`
	Ext     string   `json:"ext"`
}

type Config struct {
	Timeout        time.Duration
	MaxOutputBytes int64
	// WaitDelay bounds pipe draining after the process is killed.
	WaitDelay time.Duration
	// Interpreters by lowercased language tag. The empty tag is the default.
	Interpreters map[string]Interpreter
}

const (
	DefaultTimeout        = 5 * time.Minute
	DefaultMaxOutputBytes = 1 << 20
	defaultWaitDelay      = 2 * time.Second
)

var timeoutFlag = cmds.Var[time.Duration]("-timeout", "execution timeout per snippet")

func DefaultInterpreters() map[string]Interpreter {
	python := Interpreter{Command: []string{"python3"}, Ext: ".py"}
	shell := Interpreter{Command: []string{"sh"}, Ext: ".sh"}
	return map[string]Interpreter{
		"":           python,
		"python":     python,
		"python3":    python,
		"py":         python,
		"sh":         shell,
		"shell":      shell,
		"bash":       {Command: []string{"bash"}, Ext: ".sh"},
		"go":         {Command: []string{"go", "run"}, Ext: ".go"},
		"js":         {Command: []string{"node"}, Ext: ".js"},
		"javascript": {Command: []string{"node"}, Ext: ".js"},
	}
}

func DefaultConfig() Config {
	return Config{
		Timeout:        DefaultTimeout,
		MaxOutputBytes: DefaultMaxOutputBytes,
		WaitDelay:      defaultWaitDelay,
		Interpreters:   DefaultInterpreters(),
	}
}

func (Module) Config(
	loader configs.Loader,
	logger logs.Logger,
) Config {
	ret := DefaultConfig()

	if str := configs.First[string](loader, "timeout"); str != "" {
		timeout, err := time.ParseDuration(str)
		if err != nil {
			logger.Warn("bad timeout config", "value", str, "err", err)
		} else if timeout > 0 {
			ret.Timeout = timeout
		}
	}
	if *timeoutFlag > 0 {
		ret.Timeout = *timeoutFlag
	}

	if n := configs.First[int64](loader, "max_output_bytes"); n > 0 {
		ret.MaxOutputBytes = n
	}

	configured := make(map[string]Interpreter)
	for interpreters := range configs.All[map[string]Interpreter](loader, "interpreters") {
		for tag, interpreter := range interpreters {
			tag = strings.ToLower(tag)
			if _, ok := configured[tag]; ok {
				// earlier files take precedence
				continue
			}
			configured[tag] = interpreter
		}
	}
	maps.Copy(ret.Interpreters, configured)

	return ret
}
