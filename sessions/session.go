package sessions

import (
	"github.com/google/uuid"
	"github.com/reusee/analyst/completions"
	"github.com/reusee/analyst/conversations"
	"github.com/reusee/analyst/logs"
)

// Session is the state of one conversation. It is passed explicitly to every phase.
type Session struct {
	ID       uuid.UUID
	History  *conversations.History
	Sampling completions.Sampling
	Client   completions.Client
	Ended    bool
}

type NewSession func() (*Session, error)

func (Module) NewSession(
	instruction SystemInstruction,
	sampling completions.Sampling,
	getClient completions.GetDefaultClient,
	logger logs.Logger,
) NewSession {
	return func() (*Session, error) {
		client, err := getClient()
		if err != nil {
			return nil, err
		}
		session := &Session{
			ID:       uuid.New(),
			History:  conversations.New(string(instruction)),
			Sampling: sampling,
			Client:   client,
		}
		logger.Info("new session",
			"session", session.ID.String(),
			"model", client.Args().Model,
		)
		return session, nil
	}
}
