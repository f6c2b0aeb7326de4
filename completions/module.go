package completions

import (
	"github.com/reusee/analyst/logs"
	"github.com/reusee/analyst/nets"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Nets nets.Module
	Logs logs.Module
}
