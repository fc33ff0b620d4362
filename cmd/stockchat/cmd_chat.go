package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/tradewind/stockchat/src/app"
	"github.com/tradewind/stockchat/src/chatsession"
)

// ChatCmd is the interactive chat command.
type ChatCmd struct {
	Conversation int64 `short:"c" help:"Open a specific conversation by id"`
}

func (cmd *ChatCmd) Run(cli *CLI) error {
	logger := createCLILogger(cli.LogLevel)

	a, err := app.New(app.Options{
		ConfigPath: cli.Config,
		BaseURL:    cli.BaseURL,
		Token:      cli.Token,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	ctx := context.Background()
	session := a.Session
	render := newRenderer(a.Config.Chat.Theme, a.Config.Chat.RenderMarkdown)

	if err := session.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if cmd.Conversation != 0 {
		if err := session.SwitchConversation(ctx, cmd.Conversation); err != nil {
			return err
		}
	}

	repl := &chatREPL{
		app:     a,
		session: session,
		render:  render,
	}
	return repl.run(ctx)
}

type chatREPL struct {
	app     *app.App
	session *chatsession.Session
	render  *renderer
}

func (r *chatREPL) run(ctx context.Context) error {
	// Ctrl-C cancels an in-flight exchange instead of killing the REPL.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			if r.session.IsStreaming() {
				r.session.CancelStreaming()
			} else {
				fmt.Println(r.render.mutedf("\nuse /quit to exit"))
				fmt.Print(r.promptLabel())
			}
		}
	}()

	r.printWelcome()
	r.printHistory()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print(r.promptLabel())
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := r.handleCommand(ctx, line)
			if err != nil {
				fmt.Println(r.render.errorf("%v", err))
			}
			if quit {
				return nil
			}
			continue
		}

		r.send(ctx, line)
	}
}

func (r *chatREPL) promptLabel() string {
	if conv, ok := r.session.ActiveConversation(); ok {
		return r.render.promptf("[%s] > ", conv.Title)
	}
	return r.render.promptf("> ")
}

func (r *chatREPL) printWelcome() {
	quota := r.session.Quota()
	fmt.Println(r.render.mutedf("stockchat market assistant (%d/%d sends remaining, /help for commands)",
		quota.Remaining, quota.Total))
}

func (r *chatREPL) printHistory() {
	for _, msg := range r.session.Messages() {
		switch msg.Role {
		case chatsession.RoleUser:
			fmt.Println(r.render.promptf("you:"), msg.Content)
		case chatsession.RoleAssistant:
			fmt.Print(r.render.assistantMessage(msg.Content))
		}
	}
}

func (r *chatREPL) send(ctx context.Context, text string) {
	cancel := func() {}
	if timeout := r.app.StreamTimeout(); timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	r.session.SetChunkListener(func(delta string) {
		fmt.Print(delta)
	})
	defer r.session.SetChunkListener(nil)

	err := r.session.SendMessage(ctx, text)
	fmt.Println()

	switch {
	case err == nil:
	case chatsession.IsCancelled(err):
		// Silent reset; the timeline already reads as if the send never
		// happened.
		fmt.Println(r.render.mutedf("(cancelled)"))
	case errors.Is(err, chatsession.ErrQuotaExceeded):
		fmt.Println(r.render.warnf("You're out of chat quota. Wait for it to reset or upgrade your plan."))
	default:
		fmt.Println(r.render.errorf("Send failed: %v. Please try again.", err))
	}
}

func (r *chatREPL) handleCommand(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	command, args := fields[0], fields[1:]

	switch command {
	case "/quit", "/exit", "/q":
		return true, nil

	case "/help":
		fmt.Println(r.render.mutedf(`commands:
  /new [title]          start a new conversation
  /list                 list conversations
  /switch <id>          switch to a conversation
  /rename <id> <title>  rename a conversation
  /delete <id>          delete a conversation
  /quota                show remaining sends
  /quit                 exit`))
		return false, nil

	case "/new":
		title := strings.Join(args, " ")
		conv, err := r.session.NewConversation(ctx, title)
		if err != nil {
			return false, err
		}
		fmt.Println(r.render.mutedf("started conversation %d: %s", conv.ID, conv.Title))
		return false, nil

	case "/list":
		activeID := int64(0)
		if conv, ok := r.session.ActiveConversation(); ok {
			activeID = conv.ID
		}
		for _, conv := range r.session.Conversations() {
			marker := "  "
			if conv.ID == activeID {
				marker = "* "
			}
			fmt.Printf("%s%d\t%s\t%s\n", marker, conv.ID, conv.Title,
				r.render.mutedf("%d messages", conv.MessageCount))
		}
		return false, nil

	case "/switch":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: /switch <id>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return false, fmt.Errorf("invalid conversation id %q", args[0])
		}
		if err := r.session.SwitchConversation(ctx, id); err != nil {
			return false, err
		}
		r.printHistory()
		return false, nil

	case "/rename":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: /rename <id> <title>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return false, fmt.Errorf("invalid conversation id %q", args[0])
		}
		return false, r.session.RenameConversation(ctx, id, strings.Join(args[1:], " "))

	case "/delete":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: /delete <id>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return false, fmt.Errorf("invalid conversation id %q", args[0])
		}
		return false, r.session.DeleteConversation(ctx, id)

	case "/quota":
		quota := r.session.Quota()
		fmt.Println(r.render.mutedf("quota: %d used, %d remaining of %d", quota.Used, quota.Remaining, quota.Total))
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", command)
	}
}
