package gates

import (
	"github.com/reusee/analyst/consoles"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Consoles consoles.Module
}
