package completions

import (
	"github.com/reusee/analyst/configs"
	"github.com/reusee/analyst/vars"
)

// compatible builds an OpenAI client for a service speaking the same wire protocol.
// A base_url or api_key in the clients entry overrides the provider defaults.
func compatible(newOpenAI NewOpenAI, provider string, baseURL string, apiKey string) func(ClientArgs) *OpenAI {
	return func(args ClientArgs) *OpenAI {
		args.BaseURL = vars.FirstNonZero(args.BaseURL, baseURL)
		ret := newOpenAI(args, vars.FirstNonZero(args.APIKey, apiKey))
		ret.provider = provider
		return ret
	}
}

type NewDeepseek func(args ClientArgs) *OpenAI

func (Module) NewDeepseek(
	apiKey DeepseekAPIKey,
	newOpenAI NewOpenAI,
) NewDeepseek {
	return compatible(newOpenAI, "deepseek", "https://api.deepseek.com/", string(apiKey))
}

type NewOpenRouter func(args ClientArgs) *OpenAI

func (Module) NewOpenRouter(
	apiKey OpenRouterAPIKey,
	newOpenAI NewOpenAI,
	loader configs.Loader,
) NewOpenRouter {
	endpoint := vars.FirstNonZero(
		configs.First[string](loader, "openrouter_endpoint"),
		"https://openrouter.ai/api/v1",
	)
	return compatible(newOpenAI, "openrouter", endpoint, string(apiKey))
}
