package main

import (
	"github.com/reusee/analyst/appconfigs"
	"github.com/reusee/analyst/sessions"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Sessions sessions.Module
	Configs  appconfigs.Module
}
