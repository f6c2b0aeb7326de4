package sessions

import (
	"strings"

	"github.com/reusee/analyst/cmds"
	"github.com/reusee/analyst/configs"
	"github.com/reusee/analyst/prompts"
	"github.com/reusee/analyst/vars"
)

// Sentinel is the input that ends a session.
type Sentinel string

const DefaultSentinel = "exit"

var sentinelFlag = cmds.Var[string]("-sentinel", "input that ends the session")

func (Module) Sentinel(
	loader configs.Loader,
) Sentinel {
	return Sentinel(strings.ToLower(strings.TrimSpace(string(vars.FirstNonZero(
		Sentinel(*sentinelFlag),
		configs.First[Sentinel](loader, "sentinel"),
		DefaultSentinel,
	)))))
}

// Matches reports whether input is the sentinel, ignoring case and surrounding space.
func (s Sentinel) Matches(input string) bool {
	return strings.ToLower(strings.TrimSpace(input)) == string(s)
}

type SystemInstruction string

func (Module) SystemInstruction(
	loader configs.Loader,
) SystemInstruction {
	return vars.FirstNonZero(
		configs.First[SystemInstruction](loader, "system_instruction"),
		SystemInstruction(strings.TrimSpace(prompts.Analyst)+"\n\n"+strings.TrimSpace(prompts.CodeProtocol)+"\n\n"),
	)
}
