package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/kbconsole/internal/client/models"
)

// Users searches accounts by username. A leading numeric argument is the
// page; the rest is the username fragment.
func (a *App) Users(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			page = n
			args = args[1:]
		}
	}

	p, err := a.userService.Search(ctx, strings.Join(args, " "), page)
	if err != nil {
		return err
	}
	if p.Total == 0 {
		a.printf("No users.\n")
		return nil
	}

	rows := make([][]string, 0, len(p.Items))
	for _, u := range p.Items {
		rows = append(rows, []string{string(u.ID), u.Username, u.FullName, u.Email, u.Role})
	}
	printTable(a.out, []string{"ID", "USERNAME", "FULL NAME", "EMAIL", "ROLE"}, rows)
	pageFooter(a.out, p.Number, p.Pages(), p.Total, "users")
	return nil
}

// EditUser loads the account and asks for each field, keeping the current
// value on an empty answer.
func (a *App) EditUser(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("useredit <id>")
	}
	id := models.ID(args[0])
	u, err := a.userService.Get(ctx, id)
	if err != nil {
		return err
	}

	upd := models.UserUpdate{}
	if upd.FullName, err = a.promptDefault("Full name", u.FullName); err != nil {
		return err
	}
	if upd.Username, err = a.promptDefault("Username", u.Username); err != nil {
		return err
	}
	if upd.Email, err = a.promptDefault("Email", u.Email); err != nil {
		return err
	}
	if upd.Role, err = a.promptDefault("Role", u.Role); err != nil {
		return err
	}

	if err := a.userService.Update(ctx, id, upd); err != nil {
		return err
	}
	a.printf("Saved.\n")
	return nil
}

func (a *App) DeleteUser(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("userdel <id>")
	}
	if err := a.confirm("Delete user " + args[0] + "?"); err != nil {
		return err
	}
	if err := a.userService.Delete(ctx, models.ID(args[0])); err != nil {
		return err
	}
	a.printf("Deleted.\n")
	return nil
}
