package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/kbconsole/internal/client/models"
	"github.com/dmitrijs2005/kbconsole/internal/client/services"
)

func (a *App) Assistants(ctx context.Context, args []string) error {
	list, err := a.chatService.ListAssistants(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.printf("No assistants.\n")
		return nil
	}
	rows := make([][]string, 0, len(list))
	for _, as := range list {
		rows = append(rows, []string{
			string(as.ID), as.Name, as.Model, as.Creativity,
			strconv.FormatFloat(as.Temperature, 'f', -1, 64), as.KnowledgeBase,
		})
	}
	printTable(a.out, []string{"ID", "NAME", "MODEL", "CREATIVITY", "TEMP", "KNOWLEDGE BASE"}, rows)
	return nil
}

// CreateAssistant walks through the assistant form. Empty answers keep the
// defaults; the knowledge base defaults to the selected one.
func (a *App) CreateAssistant(ctx context.Context, args []string) error {
	as := services.DefaultAssistant()
	if kb, err := a.selectedKB(); err == nil {
		as.KnowledgeBase = string(kb)
	}

	var err error
	if as.Name, err = a.argOrPrompt(args, "Enter assistant name"); err != nil {
		return err
	}
	if as.Description, err = a.promptDefault("Description", ""); err != nil {
		return err
	}
	if as.KnowledgeBase, err = a.promptDefault("Knowledge base id", as.KnowledgeBase); err != nil {
		return err
	}
	if as.OpeningGreeting, err = a.promptDefault("Opening greeting", as.OpeningGreeting); err != nil {
		return err
	}
	if as.Model, err = a.choose("Model", services.ModelOptions); err != nil {
		return err
	}
	if as.Creativity, err = a.choose("Creativity", services.CreativityOptions); err != nil {
		return err
	}

	temp, err := a.promptDefault("Temperature (0 to 1)", strconv.FormatFloat(as.Temperature, 'f', -1, 64))
	if err != nil {
		return err
	}
	if as.Temperature, err = strconv.ParseFloat(temp, 64); err != nil {
		return usage("temperature must be a number between 0 and 1")
	}

	prompt, err := getMultiline(a.reader, "System prompt (empty keeps the default)", a.out)
	if err != nil {
		return err
	}
	if prompt != "" {
		as.SystemPrompt = prompt
	}

	created, err := a.chatService.CreateAssistant(ctx, as)
	if err != nil {
		return err
	}
	a.printf("Created assistant %q (%s).\n", created.Name, created.ID)
	return nil
}

// choose prints numbered options and returns the picked value. An empty
// answer picks the first option.
func (a *App) choose(title string, options []services.Option) (string, error) {
	for i, o := range options {
		a.printf("  %d) %s\n", i+1, o.Label)
	}
	answer, err := a.promptDefault(title, "1")
	if err != nil {
		return "", err
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(options) {
		return "", usage(fmt.Sprintf("%s: pick a number from 1 to %d", strings.ToLower(title), len(options)))
	}
	return options[n-1].Value, nil
}

func (a *App) DeleteAssistant(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("asdel <id>")
	}
	if err := a.confirm("Delete assistant " + args[0] + "?"); err != nil {
		return err
	}
	if err := a.chatService.DeleteAssistant(ctx, models.ID(args[0])); err != nil {
		return err
	}
	a.printf("Deleted.\n")
	return nil
}

func (a *App) Chats(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("chats <assistant-id>")
	}
	list, err := a.chatService.Chats(ctx, models.ID(args[0]))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.printf("No conversations.\n")
		return nil
	}
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{string(c.ID), c.Name, strconv.Itoa(len(c.Messages))})
	}
	printTable(a.out, []string{"ID", "NAME", "MESSAGES"}, rows)
	return nil
}

// NewChat starts a conversation with an assistant and makes it the open one.
func (a *App) NewChat(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("newchat <assistant-id>")
	}
	conv, err := a.chatService.NewChat(ctx, models.ID(args[0]))
	if err != nil {
		return err
	}
	a.openChat(conv.ID)
	a.printf("Started %q (%s). Use 'say' to talk.\n", conv.Name, conv.ID)
	return nil
}

// OpenChat makes a conversation the open one and prints its history.
func (a *App) OpenChat(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("open <chat-id>")
	}
	id := models.ID(args[0])
	history, err := a.chatService.History(ctx, id)
	if err != nil {
		return err
	}
	a.openChat(id)
	for _, m := range history {
		a.printMessage(m)
	}
	return nil
}

// Say sends a message to the open conversation and prints the reply. Without
// arguments the message is read as multiple lines.
func (a *App) Say(ctx context.Context, args []string) error {
	id, err := a.selectedChat()
	if err != nil {
		return err
	}
	text := strings.Join(args, " ")
	if text == "" {
		if text, err = getMultiline(a.reader, "Message", a.out); err != nil {
			return err
		}
	}
	reply, err := a.chatService.Send(ctx, id, text)
	if err != nil {
		return err
	}
	a.printMessage(reply)
	return nil
}

func (a *App) openChat(id models.ID) {
	a.mu.Lock()
	a.currentChat = id
	a.mu.Unlock()
}

func (a *App) printMessage(m models.Message) {
	role := m.Role
	if role == "" {
		role = "assistant"
	}
	a.printf("%s: %s\n", role, m.Content)
}
