package sessions

import "context"

// Phase is one state of the session loop. A nil next phase ends the session.
type Phase func(ctx context.Context, session *Session) (Phase, error)
