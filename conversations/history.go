package conversations

import (
	"fmt"
	"slices"
	"strings"

	"github.com/reusee/analyst/completions"
)

// Exchange is one resolved question and answer.
type Exchange struct {
	Question string
	Answer   string
}

// History is the system instruction plus the exchanges of one session, in insertion order.
// Exchanges are never removed or reordered.
type History struct {
	instruction string
	exchanges   []Exchange
}

func New(instruction string) *History {
	return &History{
		instruction: instruction,
	}
}

func (h *History) Instruction() string {
	return h.instruction
}

func (h *History) Len() int {
	return len(h.exchanges)
}

func (h *History) Exchanges() []Exchange {
	return slices.Clone(h.exchanges)
}

// BuildContext returns the turns to send for question: the system turn,
// every stored exchange as a user and assistant pair, then question.
func (h *History) BuildContext(question string) []completions.Turn {
	turns := make([]completions.Turn, 0, 2+len(h.exchanges)*2)
	turns = append(turns, completions.Turn{
		Role: completions.RoleSystem,
		Text: h.instruction,
	})
	for _, exchange := range h.exchanges {
		turns = append(turns,
			completions.Turn{
				Role: completions.RoleUser,
				Text: exchange.Question,
			},
			completions.Turn{
				Role: completions.RoleAssistant,
				Text: exchange.Answer,
			},
		)
	}
	turns = append(turns, completions.Turn{
		Role: completions.RoleUser,
		Text: question,
	})
	return turns
}

// Append records a resolved exchange. Only successful completions reach here, so an empty answer is a caller bug.
func (h *History) Append(question, answer string) error {
	if strings.TrimSpace(answer) == "" {
		return fmt.Errorf("append exchange %d: empty answer: %w", len(h.exchanges), ErrInvalidState)
	}
	h.exchanges = append(h.exchanges, Exchange{
		Question: question,
		Answer:   answer,
	})
	return nil
}
