package completions

import (
	"os"

	"github.com/reusee/analyst/configs"
	"github.com/reusee/analyst/vars"
)

type (
	OpenAIAPIKey     string
	DeepseekAPIKey   string
	OpenRouterAPIKey string
	GoogleAPIKey     string
)

// lookupKey prefers the config file over the environment. Earlier env names win.
func lookupKey[T ~string](loader configs.Loader, configKey string, envNames ...string) T {
	candidates := []T{configs.First[T](loader, configKey)}
	for _, name := range envNames {
		candidates = append(candidates, T(os.Getenv(name)))
	}
	return vars.FirstNonZero(candidates...)
}

func (Module) OpenAIAPIKey(loader configs.Loader) OpenAIAPIKey {
	return lookupKey[OpenAIAPIKey](loader, "openai_api_key", "OPENAI_API_KEY")
}

func (Module) DeepseekAPIKey(loader configs.Loader) DeepseekAPIKey {
	return lookupKey[DeepseekAPIKey](loader, "deepseek_api_key", "DEEPSEEK_API_KEY")
}

func (Module) OpenRouterAPIKey(loader configs.Loader) OpenRouterAPIKey {
	return lookupKey[OpenRouterAPIKey](loader, "openrouter_api_key", "OPENROUTER_API_KEY", "OPEN_ROUTER_API_KEY")
}

func (Module) GoogleAPIKey(loader configs.Loader) GoogleAPIKey {
	return lookupKey[GoogleAPIKey](loader, "google_api_key", "GOOGLE_API_KEY", "GEMINI_API_KEY")
}
