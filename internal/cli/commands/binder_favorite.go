package commands

import (
	"context"
	"fmt"

	"BinderKeeper/internal/config"
)

type binderFavoriteCmd struct{}

func (binderFavoriteCmd) Name() string { return "binder-favorite" }
func (binderFavoriteCmd) Description() string {
	return "Сделать биндер избранным (единственным)"
}
func (binderFavoriteCmd) Usage() string { return "binder-favorite <id>" }

func (binderFavoriteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	store, _, done, err := openServices()
	if err != nil {
		return err
	}
	defer done()
	b, err := store.GetBinder(args[0])
	if err != nil {
		return err
	}
	b.IsFavorite = true
	if err := store.SaveBinder(b); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Биндер %s отмечен избранным\n", b.Name)
	return nil
}

func init() { RegisterCmd(binderFavoriteCmd{}) }
