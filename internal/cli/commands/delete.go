package commands

import (
	"context"
	"fmt"

	"BinderKeeper/internal/cli/model"
	"BinderKeeper/internal/config"
)

type deleteCmd struct{}

func (deleteCmd) Name() string { return "delete" }
func (deleteCmd) Description() string {
	return "Удалить биндер или колоду"
}
func (deleteCmd) Usage() string { return "delete <binder|deck> <id>" }

func (deleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	store, _, done, err := openServices()
	if err != nil {
		return err
	}
	defer done()
	switch args[0] {
	case model.EntityBinder:
		if err := store.DeleteBinder(args[1]); err != nil {
			return err
		}
	case model.EntityDeck:
		if err := store.DeleteDeck(args[1]); err != nil {
			return err
		}
	default:
		return ErrUsage
	}
	fmt.Fprintf(Out, "Удалено: %s %s\n", args[0], args[1])
	return nil
}

func init() { RegisterCmd(deleteCmd{}) }
