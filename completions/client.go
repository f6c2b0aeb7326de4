package completions

import (
	"context"
	"fmt"
	"strings"

	"github.com/reusee/analyst/configs"
	"github.com/reusee/analyst/vars"
)

// Client sends a conversation to an LLM service and returns the generated text.
// Failures are *ServiceError. A nil error implies non-empty text.
type Client interface {
	Args() ClientArgs
	Complete(ctx context.Context, req Request) (string, error)
}

type GetClient func(name string) (Client, error)

func (Module) GetClient(
	loader configs.Loader,
	newOpenAI NewOpenAI,
	newDeepseek NewDeepseek,
	newOpenRouter NewOpenRouter,
	newGemini NewGemini,
	openAIKey OpenAIAPIKey,
) GetClient {
	return func(name string) (Client, error) {

		// user-defined first
		for specs := range configs.All[[]ClientSpec](loader, "clients") {
			for _, spec := range specs {
				if spec.Name != name {
					continue
				}
				if spec.Model == "" {
					spec.Model = spec.Name
				}
				switch strings.ToLower(spec.Type) {
				case "openai", "open-ai", "open_ai", "":
					if spec.BaseURL == "" {
						spec.BaseURL = openAIBaseURL
					}
					return newOpenAI(spec.ClientArgs, vars.FirstNonZero(spec.APIKey, string(openAIKey))), nil
				case "deepseek":
					return newDeepseek(spec.ClientArgs), nil
				case "openrouter", "open-router", "open_router":
					return newOpenRouter(spec.ClientArgs), nil
				case "ollama":
					spec.BaseURL = vars.FirstNonZero(spec.BaseURL, ollamaBaseURL)
					return newOpenAI(spec.ClientArgs, ""), nil
				case "gemini":
					return newGemini(spec.ClientArgs), nil
				default:
					return nil, fmt.Errorf("unknown client type: %q", spec.Type)
				}
			}
		}

		// ollama:<model>
		if provider, model, ok := strings.Cut(name, ":"); ok && provider == "ollama" {
			return newOpenAI(ClientArgs{
				BaseURL: ollamaBaseURL,
				Model:   model,
			}, ""), nil
		}

		// built-ins
		switch name {

		case "gpt-4o", "gpt-4o-mini", "gpt-4.1", "gpt-4.1-mini":
			return newOpenAI(ClientArgs{
				BaseURL: openAIBaseURL,
				Model:   name,
			}, string(openAIKey)), nil

		case "deepseek", "deepseek-chat":
			return newDeepseek(ClientArgs{
				Model: "deepseek-chat",
			}), nil

		case "flash", "gemini-flash":
			return newGemini(ClientArgs{
				Model: "gemini-flash-latest",
			}), nil

		case "pro", "gemini-pro":
			return newGemini(ClientArgs{
				Model: "gemini-pro-latest",
			}), nil

		}

		return nil, fmt.Errorf("invalid model: %s", name)
	}
}

const (
	openAIBaseURL = "https://api.openai.com/v1"
	ollamaBaseURL = "http://127.0.0.1:11434/v1"
)
