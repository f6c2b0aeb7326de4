package cmds

import (
	"fmt"
	"os"
)

// GlobalExecutor holds the commands defined by package-level Var, Switch and Collect calls.
var GlobalExecutor = NewExecutor()

func Define(name string, command *Command) {
	GlobalExecutor.Define(name, command)
}

// Execute runs the global executor and exits the process on a malformed command line.
func Execute(args []string) {
	if err := GlobalExecutor.Execute(args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		fmt.Fprintln(os.Stderr, "use -h to print usage")
		os.Exit(2)
	}
}
