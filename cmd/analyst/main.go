package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/reusee/analyst/cmds"
	"github.com/reusee/analyst/consoles"
	"github.com/reusee/analyst/logs"
	"github.com/reusee/analyst/modes"
	"github.com/reusee/analyst/sessions"
	"github.com/reusee/dscope"
)

func main() {
	cmds.Execute(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)

	var err error
	scope.Call(func(
		newSession sessions.NewSession,
		loop sessions.Loop,
		console consoles.Console,
		sentinel sessions.Sentinel,
		logger logs.Logger,
	) {
		defer func() {
			if e := console.Close(); e != nil {
				logger.Warn("close console", "err", e)
			}
		}()

		session, e := newSession()
		if e != nil {
			err = e
			return
		}

		fmt.Fprintf(console, "Please type %s to terminate the conversation!\n\n", sentinel)
		err = loop(ctx, session)
	})

	if e := logs.CloseFiles(); e != nil {
		fmt.Fprintln(os.Stderr, e)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
