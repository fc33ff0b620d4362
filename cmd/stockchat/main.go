package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// CLI is the root command structure.
type CLI struct {
	Token    string `env:"STOCKCHAT_TOKEN" help:"Chat service API token"`
	BaseURL  string `help:"Custom chat service base URL"`
	Config   string `help:"Path to config file"`
	LogLevel string `default:"warn" help:"Log level"`

	Chat          ChatCmd          `cmd:"" default:"1" help:"Interactive chat with the market assistant (default)"`
	Conversations ConversationsCmd `cmd:"" help:"Manage conversations"`
	Quota         QuotaCmd         `cmd:"" help:"Show the remaining chat quota"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("stockchat"),
		kong.Description("Streaming chat client for the StockPulse market assistant"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
