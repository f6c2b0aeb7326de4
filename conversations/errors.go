package conversations

import "errors"

var ErrInvalidState = errors.New("invalid conversation state")
