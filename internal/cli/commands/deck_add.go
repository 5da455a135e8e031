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

type deckAddCmd struct{}

func (deckAddCmd) Name() string { return "deck-add" }
func (deckAddCmd) Description() string {
	return "Создать колоду"
}
func (deckAddCmd) Usage() string {
	return "deck-add <name> [--format <fmt>] [--desc <text>] [--tags a,b]"
}

func (deckAddCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		return ErrUsage
	}
	name := args[0]
	fs := flag.NewFlagSet("deck-add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	format := fs.String("format", "", "игровой формат")
	desc := fs.String("desc", "", "описание")
	tags := fs.String("tags", "", "теги через запятую")
	if err := fs.Parse(args[1:]); err != nil {
		return ErrUsage
	}

	store, _, done, err := openServices()
	if err != nil {
		return err
	}
	defer done()

	d := &model.Deck{
		Name:        name,
		Description: *desc,
		Format:      *format,
		Tags:        splitTags(*tags),
	}
	if err := store.SaveDeck(d); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Created:")
	fmt.Fprintf(Out, "  id:   %s\n", d.ID)
	fmt.Fprintf(Out, "  name: %s\n", d.Name)
	return nil
}

func init() { RegisterCmd(deckAddCmd{}) }
