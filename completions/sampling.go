package completions

import (
	"github.com/reusee/analyst/cmds"
	"github.com/reusee/analyst/configs"
	"github.com/reusee/analyst/vars"
)

// Sampling is forwarded unchanged on every completion call.
// Nil fields are left to the service default.
type Sampling struct {
	Temperature      *float32 `json:"temperature"`
	TopP             *float32 `json:"top_p"`
	MaxTokens        *int     `json:"max_tokens"`
	FrequencyPenalty *float32 `json:"frequency_penalty"`
	PresencePenalty  *float32 `json:"presence_penalty"`
}

var (
	// nil when unset; 0 is a valid temperature
	temperatureFlag = cmds.Var[*float64]("-temperature", "sampling temperature")
	maxTokensFlag   = cmds.Var[int]("-max-tokens", "max output tokens per completion")
)

func DefaultSampling() Sampling {
	return Sampling{
		Temperature:      vars.PtrTo(float32(1)),
		TopP:             vars.PtrTo(float32(1)),
		MaxTokens:        vars.PtrTo(2048),
		FrequencyPenalty: vars.PtrTo(float32(0)),
		PresencePenalty:  vars.PtrTo(float32(0)),
	}
}

func (Module) Sampling(
	loader configs.Loader,
) Sampling {
	ret := DefaultSampling()

	assign := func(key string, target **float32) {
		if v := configs.First[*float64](loader, key); v != nil {
			*target = vars.PtrTo(float32(*v))
		}
	}
	assign("temperature", &ret.Temperature)
	assign("top_p", &ret.TopP)
	assign("frequency_penalty", &ret.FrequencyPenalty)
	assign("presence_penalty", &ret.PresencePenalty)
	if n := configs.First[int](loader, "max_tokens"); n > 0 {
		ret.MaxTokens = vars.PtrTo(n)
	}

	if *temperatureFlag != nil {
		ret.Temperature = vars.PtrTo(float32(**temperatureFlag))
	}
	if *maxTokensFlag > 0 {
		ret.MaxTokens = vars.PtrTo(*maxTokensFlag)
	}

	return ret
}
