package completions

type ClientArgs struct {
	BaseURL string `json:"base_url"`
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
}

// ClientSpec is a user-defined client in the "clients" config list.
type ClientSpec struct {
	Name string `json:"name"`
	Type string `json:"type"`
	ClientArgs
}
