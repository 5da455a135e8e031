package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"BinderKeeper/internal/cli/model"
	"BinderKeeper/internal/config"
)

type binderAddCmd struct{}

func (binderAddCmd) Name() string { return "binder-add" }
func (binderAddCmd) Description() string {
	return "Создать биндер"
}
func (binderAddCmd) Usage() string {
	return "binder-add <name> [--desc <text>] [--tags a,b] [--favorite]"
}

func (binderAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		return ErrUsage
	}
	name := args[0]
	fs := flag.NewFlagSet("binder-add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	desc := fs.String("desc", "", "описание")
	tags := fs.String("tags", "", "теги через запятую")
	fav := fs.Bool("favorite", false, "сделать избранным")
	if err := fs.Parse(args[1:]); err != nil {
		return ErrUsage
	}

	store, _, done, err := openServices()
	if err != nil {
		return err
	}
	defer done()

	b := &model.Binder{
		Name:        name,
		Description: *desc,
		Tags:        splitTags(*tags),
		IsFavorite:  *fav,
	}
	if err := store.SaveBinder(b); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Created:")
	fmt.Fprintf(Out, "  id:   %s\n", b.ID)
	fmt.Fprintf(Out, "  name: %s\n", b.Name)
	if b.IsFavorite {
		fmt.Fprintln(Out, "  favorite: да")
	}
	return nil
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func init() { RegisterCmd(binderAddCmd{}) }
