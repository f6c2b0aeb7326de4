package completions

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of the conversation sent to the service.
type Turn struct {
	Role Role
	Text string
}

// Request is everything a completion call forwards to the service.
type Request struct {
	Turns    []Turn
	Sampling Sampling
}
