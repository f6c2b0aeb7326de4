package completions

import (
	"context"
	"strings"
	"sync"

	"github.com/reusee/analyst/logs"
	"github.com/reusee/analyst/nets"
	"github.com/reusee/analyst/vars"
	"github.com/reusee/dscope"
	"google.golang.org/genai"
)

// Gemini uses the Gemini API through the genai SDK.
type Gemini struct {
	args      ClientArgs
	getClient func() (*genai.Client, error)

	Count  dscope.Inject[TokenCounter]
	Logger dscope.Inject[logs.Logger]
}

var _ Client = new(Gemini)

func (g *Gemini) Args() ClientArgs {
	return g.args
}

func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	text, err := g.complete(ctx, req)
	if err != nil {
		return "", &ServiceError{
			Provider: "gemini",
			Model:    g.args.Model,
			Err:      err,
		}
	}
	return text, nil
}

func (g *Gemini) complete(ctx context.Context, req Request) (string, error) {
	client, err := g.getClient()
	if err != nil {
		return "", err
	}

	contents, config := toGemini(req)

	g.Logger().InfoContext(ctx, "completing",
		"provider", "gemini",
		"model", g.args.Model,
		"turns", len(req.Turns),
		"prompt_tokens", countTurns(g.Count(), req.Turns),
	)

	resp, err := client.Models.GenerateContent(ctx, g.args.Model, contents, config)
	if err != nil {
		return "", wrap(err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func toGemini(req Request) (contents []*genai.Content, config *genai.GenerateContentConfig) {
	config = &genai.GenerateContentConfig{
		Temperature:      req.Sampling.Temperature,
		TopP:             req.Sampling.TopP,
		FrequencyPenalty: req.Sampling.FrequencyPenalty,
		PresencePenalty:  req.Sampling.PresencePenalty,
	}
	config.MaxOutputTokens = int32(vars.DerefOrZero(req.Sampling.MaxTokens))

	var system []string
	for _, turn := range req.Turns {
		switch turn.Role {
		case RoleSystem:
			system = append(system, turn.Text)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(turn.Text, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(turn.Text, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}
	return
}

type NewGemini func(args ClientArgs) *Gemini

func (Module) NewGemini(
	inject dscope.InjectStruct,
	apiKey GoogleAPIKey,
	httpClient nets.HTTPClient,
) NewGemini {
	return func(args ClientArgs) *Gemini {
		key := string(apiKey)
		if args.APIKey != "" {
			key = args.APIKey
		}
		config := &genai.ClientConfig{
			APIKey:     key,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: httpClient,
		}
		if args.BaseURL != "" {
			config.HTTPOptions.BaseURL = args.BaseURL
		}
		ret := &Gemini{
			args: args,
			getClient: sync.OnceValues(func() (*genai.Client, error) {
				return genai.NewClient(context.Background(), config)
			}),
		}
		inject(&ret)
		return ret
	}
}
