package completions

import (
	"github.com/reusee/analyst/cmds"
	"github.com/reusee/analyst/configs"
	"github.com/reusee/analyst/logs"
	"github.com/reusee/analyst/vars"
)

var modelFlag = cmds.Var[string]("-model", "model or client name")

type DefaultModelName string

type FallbackModelName string

func (Module) FallbackModelName() FallbackModelName {
	return "gpt-4o"
}

func (Module) DefaultModelName(
	loader configs.Loader,
	fallback FallbackModelName,
	logger logs.Logger,
) (ret DefaultModelName) {
	defer func() {
		logger.Info("default model", "name", ret)
	}()
	return vars.FirstNonZero(
		DefaultModelName(*modelFlag),
		configs.First[DefaultModelName](loader, "model"),
		DefaultModelName(fallback),
	)
}

type GetDefaultClient func() (Client, error)

func (Module) GetDefaultClient(
	name DefaultModelName,
	get GetClient,
) GetDefaultClient {
	return func() (Client, error) {
		return get(string(name))
	}
}
