package completions

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/reusee/analyst/logs"
	"github.com/reusee/analyst/nets"
	"github.com/reusee/analyst/vars"
	"github.com/reusee/dscope"
)

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	args     ClientArgs
	apiKey   string
	provider string
	client   nets.HTTPClient

	Count  dscope.Inject[TokenCounter]
	Logger dscope.Inject[logs.Logger]
}

var _ Client = new(OpenAI)

func (o *OpenAI) Args() ClientArgs {
	return o.args
}

func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	text, statusCode, err := o.complete(ctx, req)
	if err != nil {
		return "", &ServiceError{
			Provider:   o.provider,
			Model:      o.args.Model,
			StatusCode: statusCode,
			Err:        err,
		}
	}
	return text, nil
}

func (o *OpenAI) complete(ctx context.Context, req Request) (_ string, statusCode int, err error) {
	body := ChatCompletionRequest{
		Model:               o.args.Model,
		Messages:            toOpenAIMessages(req.Turns),
		Stream:              true,
		Temperature:         req.Sampling.Temperature,
		TopP:                req.Sampling.TopP,
		MaxCompletionTokens: req.Sampling.MaxTokens,
		FrequencyPenalty:    req.Sampling.FrequencyPenalty,
		PresencePenalty:     req.Sampling.PresencePenalty,
	}

	o.Logger().InfoContext(ctx, "completing",
		"provider", o.provider,
		"model", o.args.Model,
		"turns", len(req.Turns),
		"prompt_tokens", countTurns(o.Count(), req.Turns),
		"temperature", vars.DerefOrZero(req.Sampling.Temperature),
		"max_tokens", vars.DerefOrZero(req.Sampling.MaxTokens),
	)

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", 0, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(o.args.BaseURL, "/")+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", 0, err
	}
	if o.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", 0, wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err != nil || errResp.Error == nil {
			return "", resp.StatusCode, fmt.Errorf("bad status, body: %s", strings.TrimSpace(string(respBody)))
		}
		return "", resp.StatusCode, errResp.Error
	}

	var text string
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		// server ignored stream: true
		text, err = readCompletion(resp.Body)
	} else {
		text, err = readCompletionStream(resp.Body)
	}
	if err != nil {
		return "", resp.StatusCode, err
	}

	if strings.TrimSpace(text) == "" {
		return "", resp.StatusCode, ErrEmptyCompletion
	}
	return text, resp.StatusCode, nil
}

func readCompletion(r io.Reader) (string, error) {
	var completion ChatCompletionResponse
	if err := json.NewDecoder(r).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return completion.Choices[0].Message.Content, nil
}

func readCompletionStream(r io.Reader) (string, error) {
	var buf strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "data: [DONE]") {
			break
		}
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}

		var chunk ChatCompletionStreamResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return "", fmt.Errorf("error unmarshalling stream response: %w", err)
		}
		if chunk.Error != nil {
			return "", chunk.Error
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		buf.WriteString(chunk.Choices[0].Delta.Content)
		if reason := chunk.Choices[0].FinishReason; reason == "error" {
			return "", errors.New("stream finished with error")
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading stream: %w", err)
	}
	return buf.String(), nil
}

func toOpenAIMessages(turns []Turn) []ChatCompletionMessage {
	messages := make([]ChatCompletionMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, ChatCompletionMessage{
			Role:    string(turn.Role),
			Content: turn.Text,
		})
	}
	return messages
}

type NewOpenAI func(args ClientArgs, apiKey string) *OpenAI

func (Module) NewOpenAI(
	inject dscope.InjectStruct,
	client nets.HTTPClient,
) NewOpenAI {
	return func(args ClientArgs, apiKey string) *OpenAI {
		ret := &OpenAI{
			args:     args,
			apiKey:   apiKey,
			provider: "openai",
			client:   client,
		}
		inject(&ret)
		return ret
	}
}

type ChatCompletionRequest struct {
	Model               string                  `json:"model"`
	Messages            []ChatCompletionMessage `json:"messages"`
	Stream              bool                    `json:"stream"`
	MaxCompletionTokens *int                    `json:"max_completion_tokens,omitempty"`
	Temperature         *float32                `json:"temperature,omitempty"`
	TopP                *float32                `json:"top_p,omitempty"`
	FrequencyPenalty    *float32                `json:"frequency_penalty,omitempty"`
	PresencePenalty     *float32                `json:"presence_penalty,omitempty"`
}

type ChatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message      ChatCompletionMessage `json:"message"`
		FinishReason string                `json:"finish_reason"`
	} `json:"choices"`
}

type ChatCompletionStreamResponse struct {
	Choices []ChatCompletionStreamChoice `json:"choices"`
	Error   *APIError                    `json:"error,omitempty"`
}

type ChatCompletionStreamChoice struct {
	Delta        ChatCompletionStreamChoiceDelta `json:"delta"`
	FinishReason string                          `json:"finish_reason"`
}

type ChatCompletionStreamChoiceDelta struct {
	Content string `json:"content,omitempty"`
	Role    string `json:"role,omitempty"`
}
