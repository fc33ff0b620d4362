package config

// DefaultBaseURL is the production chat service endpoint.
const DefaultBaseURL = "https://api.stockpulse.io/v1/chat"

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			BaseURL:           DefaultBaseURL,
			RetryCount:        3,
			RetryDelaySeconds: 1,
		},
		Chat: ChatConfig{
			RenderMarkdown: true,
			Theme:          "dark",
		},
		LogLevel: "warn",
	}
}
