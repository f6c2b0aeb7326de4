package corrections

import (
	"github.com/reusee/analyst/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
