package commands

import (
	"context"
	"fmt"

	"BinderKeeper/internal/config"
)

type bindersCmd struct{}

func (bindersCmd) Name() string { return "binders" }
func (bindersCmd) Description() string {
	return "Показать все биндеры"
}
func (bindersCmd) Usage() string { return "binders" }

func (bindersCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	store, _, done, err := openServices()
	if err != nil {
		return err
	}
	defer done()
	list, err := store.ListBinders()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "Нет биндеров")
		return nil
	}
	for _, b := range list {
		fav := ""
		if b.IsFavorite {
			fav = " ★"
		}
		fmt.Fprintf(Out, "- %s  name=%s  cards=%d%s\n", b.ID, b.Name, b.TotalCards(), fav)
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(list))
	return nil
}

func init() { RegisterCmd(bindersCmd{}) }
