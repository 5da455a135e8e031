package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"BinderKeeper/internal/cli/format"
	"BinderKeeper/internal/cli/model"
	"BinderKeeper/internal/config"
)

type importCmd struct{}

func (importCmd) Name() string { return "import" }
func (importCmd) Description() string {
	return "Импортировать биндер или колоду из файла (всегда как новую сущность)"
}
func (importCmd) Usage() string {
	return "import <binder|deck> <file> [--format json|csv|text|ydk] [--name <name>]"
}

func (importCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	kind := args[0]
	path := args[1]
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	formatName := fs.String("format", "", "формат файла; по умолчанию — по расширению")
	name := fs.String("name", "", "имя новой сущности; по умолчанию — имя файла")
	if err := fs.Parse(args[2:]); err != nil {
		return ErrUsage
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	f := strings.ToLower(*formatName)
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if f == "txt" {
			f = "text"
		}
	}
	newName := *name
	if newName == "" {
		newName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	store, _, done, err := openServices()
	if err != nil {
		return err
	}
	defer done()

	var res format.ImportResult
	switch kind {
	case model.EntityBinder:
		var b *model.Binder
		switch f {
		case "json":
			b, res = format.ImportBinderJSON(data)
		case "csv":
			b, res = format.ImportBinderCSV(data, newName)
		case "text":
			b, res = format.ImportBinderText(data, newName)
		default:
			return fmt.Errorf("формат %q не поддерживается для биндера", f)
		}
		if !res.Success {
			printImportIssues(res)
			return fmt.Errorf("импорт не выполнен")
		}
		if *name != "" {
			b.Name = *name
		}
		if err := store.SaveBinder(b); err != nil {
			return err
		}
		printImportIssues(res)
		fmt.Fprintf(Out, "Импортирован биндер %s (id=%s, записей: %d)\n", b.Name, b.ID, res.ImportedCards)
	case model.EntityDeck:
		var d *model.Deck
		switch f {
		case "json":
			d, res = format.ImportDeckJSON(data)
		case "ydk":
			d, res = format.ImportDeckYDK(data, newName)
		default:
			return fmt.Errorf("формат %q не поддерживается для колоды", f)
		}
		if !res.Success {
			printImportIssues(res)
			return fmt.Errorf("импорт не выполнен")
		}
		if *name != "" {
			d.Name = *name
		}
		if err := store.SaveDeck(d); err != nil {
			return err
		}
		printImportIssues(res)
		fmt.Fprintf(Out, "Импортирована колода %s (id=%s, записей: %d)\n", d.Name, d.ID, res.ImportedCards)
	default:
		return ErrUsage
	}
	return nil
}

func printImportIssues(res format.ImportResult) {
	for _, w := range res.Warnings {
		fmt.Fprintf(Out, "! %s\n", w)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(Out, "× %s\n", e)
	}
}

func init() { RegisterCmd(importCmd{}) }
