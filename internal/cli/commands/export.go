package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"BinderKeeper/internal/cli/format"
	"BinderKeeper/internal/cli/model"
	"BinderKeeper/internal/cli/service"
	"BinderKeeper/internal/config"
)

type exportCmd struct{}

func (exportCmd) Name() string { return "export" }
func (exportCmd) Description() string {
	return "Экспортировать биндер или колоду в файл"
}
func (exportCmd) Usage() string {
	return "export <binder|deck> <id> --out <file> [--format json|csv|text|ydk] [--strip-metadata] [--details]"
}

func (exportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	kind := args[0]
	id := args[1]
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	out := fs.String("out", "", "путь к файлу результата")
	formatName := fs.String("format", "json", "формат: json|csv|text|ydk")
	strip := fs.Bool("strip-metadata", false, "не включать временные метки и флаги синхронизации")
	details := fs.Bool("details", false, "CSV: включить колонки set/rarity/tags/notes")
	if err := fs.Parse(args[2:]); err != nil {
		return ErrUsage
	}
	if *out == "" {
		return ErrUsage
	}

	store, docs, done, err := openServices()
	if err != nil {
		return err
	}
	defer done()
	cards := service.NewCardCacheService(docs)

	var data []byte
	switch kind {
	case model.EntityBinder:
		b, err := store.GetBinder(id)
		if err != nil {
			return err
		}
		switch strings.ToLower(*formatName) {
		case "json":
			data, err = format.ExportBinderJSON(b, *strip)
		case "csv":
			opts := format.CSVExportOptions{
				IncludeDetails: *details,
				IncludeSet:     *details,
				IncludeTags:    *details,
				IncludeNotes:   *details,
			}
			data, err = format.ExportBinderCSV(b, opts, cards)
		case "text":
			data = []byte(format.ExportBinderText(b, cards))
		default:
			return fmt.Errorf("формат %q не поддерживается для биндера", *formatName)
		}
		if err != nil {
			return err
		}
	case model.EntityDeck:
		d, err := store.GetDeck(id)
		if err != nil {
			return err
		}
		switch strings.ToLower(*formatName) {
		case "json":
			data, err = format.ExportDeckJSON(d, *strip)
			if err != nil {
				return err
			}
		case "ydk":
			data = format.ExportDeckYDK(d)
		default:
			return fmt.Errorf("формат %q не поддерживается для колоды", *formatName)
		}
	default:
		return ErrUsage
	}

	if err := os.WriteFile(*out, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	fmt.Fprintf(Out, "Экспортировано в %s (%d байт)\n", *out, len(data))
	return nil
}

func init() { RegisterCmd(exportCmd{}) }
