package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/kbconsole/internal/client/models"
)

// Files lists one page of the selected knowledge base's files. A leading
// numeric argument is the page; the rest filters by file name.
func (a *App) Files(ctx context.Context, args []string) error {
	kb, err := a.selectedKB()
	if err != nil {
		return err
	}

	page := 1
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			page = n
			args = args[1:]
		}
	}

	p, err := a.fileService.List(ctx, kb, strings.Join(args, " "), page)
	if err != nil {
		return err
	}
	if p.Total == 0 {
		a.printf("No files.\n")
		return nil
	}

	rows := make([][]string, 0, len(p.Items))
	for _, f := range p.Items {
		rows = append(rows, []string{string(f.ID), f.Name, f.Extension(), size(f.Size), ago(f.UploadedAt)})
	}
	printTable(a.out, []string{"ID", "NAME", "TYPE", "SIZE", "UPLOADED"}, rows)
	pageFooter(a.out, p.Number, p.Pages(), p.Total, "files")
	return nil
}

func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("upload <path>...")
	}
	kb, err := a.selectedKB()
	if err != nil {
		return err
	}
	if err := a.fileService.Upload(ctx, kb, args); err != nil {
		return err
	}
	a.printf("Uploaded %d file(s).\n", len(args))
	return nil
}

func (a *App) RenameFile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("rename <id> [name]")
	}
	name, err := a.argOrPrompt(args[1:], "Enter new file name")
	if err != nil {
		return err
	}
	if err := a.fileService.Rename(ctx, models.ID(args[0]), name); err != nil {
		return err
	}
	a.printf("Renamed.\n")
	return nil
}

// Trash deletes the given files one by one and reports how many went before
// the first failure.
func (a *App) Trash(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("trash <id>...")
	}
	if err := a.confirm("Delete " + strconv.Itoa(len(args)) + " file(s)?"); err != nil {
		return err
	}

	ids := make([]models.ID, len(args))
	for i, s := range args {
		ids[i] = models.ID(s)
	}
	n, err := a.fileService.Trash(ctx, ids...)
	a.printf("Deleted %d of %d file(s).\n", n, len(ids))
	return err
}

func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("download <id>")
	}
	path, n, err := a.fileService.Download(ctx, models.ID(args[0]), a.config.DownloadDir)
	if err != nil {
		return err
	}
	a.printf("Saved %s (%s).\n", path, size(n))
	return nil
}
