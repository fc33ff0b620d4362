// Package config loads and validates the stockchat configuration: defaults,
// the user's JSON config file, then environment overrides, in that order.
package config

// Config is the complete configuration for stockchat.
type Config struct {
	// Version of the configuration format.
	Version string `json:"version"`

	// API configures the remote chat service connection.
	API APIConfig `json:"api"`

	// Chat configures the interactive chat command.
	Chat ChatConfig `json:"chat"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `json:"log_level,omitempty" validate:"omitempty,log_level"`
}

// APIConfig describes how to reach the chat service.
type APIConfig struct {
	// BaseURL of the chat service, without a trailing slash.
	BaseURL string `json:"base_url" validate:"omitempty,url"`

	// Token is the bearer token. Usually supplied via STOCKCHAT_TOKEN rather
	// than the config file.
	Token string `json:"token,omitempty"`

	// RetryCount for non-streaming requests.
	RetryCount int `json:"retry_count,omitempty" validate:"omitempty,min=1,max=10"`

	// RetryDelaySeconds between retry attempts.
	RetryDelaySeconds int `json:"retry_delay_seconds,omitempty" validate:"omitempty,min=0,max=60"`

	// StreamTimeoutSeconds bounds one streaming exchange. 0 disables the
	// timeout; a hung exchange then stays open until cancelled.
	StreamTimeoutSeconds int `json:"stream_timeout_seconds,omitempty" validate:"omitempty,min=0"`
}

// ChatConfig holds interactive chat preferences.
type ChatConfig struct {
	// RenderMarkdown renders completed assistant messages as terminal
	// markdown instead of plain text.
	RenderMarkdown bool `json:"render_markdown"`

	// Theme selects the CLI color theme.
	Theme string `json:"theme,omitempty" validate:"omitempty,oneof=dark light"`
}
