package completions

import (
	"github.com/tiktoken-go/tokenizer"
)

// TokenCounter estimates prompt sizes for logging. It is not exact for non-OpenAI models.
type TokenCounter func(text string) (int, error)

func (Module) TokenCounter() TokenCounter {
	enc, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return func(string) (int, error) {
			return 0, err
		}
	}
	return func(text string) (int, error) {
		ids, _, err := enc.Encode(text)
		if err != nil {
			return 0, err
		}
		return len(ids), nil
	}
}

func countTurns(count TokenCounter, turns []Turn) (n int) {
	for _, turn := range turns {
		c, err := count(turn.Text)
		if err != nil {
			return -1
		}
		n += c
	}
	return
}
