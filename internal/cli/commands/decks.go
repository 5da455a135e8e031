package commands

import (
	"context"
	"fmt"

	"BinderKeeper/internal/cli/model"
	"BinderKeeper/internal/config"
)

type decksCmd struct{}

func (decksCmd) Name() string { return "decks" }
func (decksCmd) Description() string {
	return "Показать все колоды"
}
func (decksCmd) Usage() string { return "decks" }

func (decksCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	store, _, done, err := openServices()
	if err != nil {
		return err
	}
	defer done()
	list, err := store.ListDecks()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "Нет колод")
		return nil
	}
	for _, d := range list {
		fmt.Fprintf(Out, "- %s  name=%s  main=%d extra=%d side=%d\n",
			d.ID, d.Name,
			model.SectionTotal(d.Section(model.SectionMain)),
			model.SectionTotal(d.Section(model.SectionExtra)),
			model.SectionTotal(d.Section(model.SectionSide)))
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(list))
	return nil
}

func init() { RegisterCmd(decksCmd{}) }
