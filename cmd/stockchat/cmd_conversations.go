package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/tradewind/stockchat/src/app"
	"github.com/tradewind/stockchat/src/chatapi"
)

// ConversationsCmd manages conversations without entering the chat loop.
type ConversationsCmd struct {
	List   ConversationsListCmd   `cmd:"" default:"1" help:"List conversations"`
	Rename ConversationsRenameCmd `cmd:"" help:"Rename a conversation"`
	Delete ConversationsDeleteCmd `cmd:"" help:"Delete a conversation"`
}

type ConversationsListCmd struct{}

func (cmd *ConversationsListCmd) Run(cli *CLI) error {
	return withClient(cli, func(ctx context.Context, client *chatapi.Client) error {
		conversations, err := client.ListConversations(ctx)
		if err != nil {
			return err
		}
		if len(conversations) == 0 {
			fmt.Println("no conversations")
			return nil
		}
		for _, conv := range conversations {
			fmt.Printf("%d\t%s\t%d messages\n", conv.ID, conv.Title, conv.MessageCount)
		}
		return nil
	})
}

type ConversationsRenameCmd struct {
	ID    int64    `arg:"" help:"Conversation id"`
	Title []string `arg:"" help:"New title"`
}

func (cmd *ConversationsRenameCmd) Run(cli *CLI) error {
	return withClient(cli, func(ctx context.Context, client *chatapi.Client) error {
		conv, err := client.RenameConversation(ctx, cmd.ID, strings.Join(cmd.Title, " "))
		if err != nil {
			return err
		}
		fmt.Printf("renamed conversation %d to %q\n", conv.ID, conv.Title)
		return nil
	})
}

type ConversationsDeleteCmd struct {
	ID int64 `arg:"" help:"Conversation id"`
}

func (cmd *ConversationsDeleteCmd) Run(cli *CLI) error {
	return withClient(cli, func(ctx context.Context, client *chatapi.Client) error {
		if err := client.DeleteConversation(ctx, cmd.ID); err != nil {
			return err
		}
		fmt.Printf("deleted conversation %d\n", cmd.ID)
		return nil
	})
}

// withClient builds the app and hands the API client to fn.
func withClient(cli *CLI, fn func(context.Context, *chatapi.Client) error) error {
	a, err := app.New(app.Options{
		ConfigPath: cli.Config,
		BaseURL:    cli.BaseURL,
		Token:      cli.Token,
		Logger:     createCLILogger(cli.LogLevel),
	})
	if err != nil {
		return err
	}
	return fn(context.Background(), a.Client)
}
