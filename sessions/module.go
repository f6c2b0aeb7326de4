package sessions

import (
	"github.com/reusee/analyst/completions"
	"github.com/reusee/analyst/consoles"
	"github.com/reusee/analyst/corrections"
	"github.com/reusee/analyst/debugs"
	"github.com/reusee/analyst/executors"
	"github.com/reusee/analyst/gates"
	"github.com/reusee/analyst/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Completions completions.Module
	Consoles    consoles.Module
	Corrections corrections.Module
	Debugs      debugs.Module
	Executors   executors.Module
	Gates       gates.Module
	Logs        logs.Module
}
