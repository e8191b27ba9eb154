package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/kbconsole/internal/client/models"
	"github.com/dmitrijs2005/kbconsole/internal/common"
)

// KnowledgeBases reloads the list and prints it, narrowed to titles
// containing the optional filter. The selected one is marked with '*'.
func (a *App) KnowledgeBases(ctx context.Context, args []string) error {
	if _, err := a.kbService.Load(ctx); err != nil {
		return err
	}
	list := a.kbService.Filter(strings.Join(args, " "))
	if len(list) == 0 {
		a.printf("No knowledge bases.\n")
		return nil
	}

	current, _ := a.selectedKB()
	rows := make([][]string, 0, len(list))
	for _, kb := range list {
		mark := ""
		if kb.ID == current {
			mark = "*"
		}
		rows = append(rows, []string{mark, string(kb.ID), kb.Title, strconv.Itoa(kb.Docs), ago(kb.UpdatedAt)})
	}
	printTable(a.out, []string{"", "ID", "NAME", "DOCS", "UPDATED"}, rows)
	return nil
}

func (a *App) CreateKnowledgeBase(ctx context.Context, args []string) error {
	name, err := a.argOrPrompt(args, "Enter knowledge base name")
	if err != nil {
		return err
	}
	kb, err := a.kbService.Create(ctx, name)
	if err != nil {
		return err
	}
	a.printf("Created knowledge base %q (%s).\n", kb.Title, kb.ID)
	return nil
}

func (a *App) RenameKnowledgeBase(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("kbrename <id> [name]")
	}
	id := models.ID(args[0])
	name, err := a.argOrPrompt(args[1:], "Enter new name")
	if err != nil {
		return err
	}
	if err := a.kbService.Rename(ctx, id, name); err != nil {
		return err
	}
	a.printf("Renamed.\n")
	return nil
}

func (a *App) DeleteKnowledgeBase(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("kbdel <id>")
	}
	id := models.ID(args[0])
	if err := a.confirm("Delete knowledge base " + args[0] + " and all its files?"); err != nil {
		return err
	}
	if err := a.kbService.Delete(ctx, id); err != nil {
		return err
	}

	a.mu.Lock()
	if a.currentKB == id {
		a.currentKB = ""
	}
	a.mu.Unlock()

	a.printf("Deleted.\n")
	return nil
}

// UseKnowledgeBase selects the knowledge base the file commands work on.
func (a *App) UseKnowledgeBase(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("use <id>")
	}
	id := models.ID(args[0])

	kb, err := a.kbService.Get(id)
	if errors.Is(err, common.ErrorNotFound) {
		if _, err = a.kbService.Load(ctx); err != nil {
			return err
		}
		kb, err = a.kbService.Get(id)
	}
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.currentKB = kb.ID
	a.mu.Unlock()

	a.printf("Using knowledge base %q.\n", kb.Title)
	return nil
}
