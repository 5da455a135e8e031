package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"BinderKeeper/internal/cli/service"
	"BinderKeeper/internal/config"
)

type restoreCmd struct{}

func (restoreCmd) Name() string { return "restore" }
func (restoreCmd) Description() string {
	return "Восстановить данные из снапшота"
}
func (restoreCmd) Usage() string {
	return "restore <backup-id> [--replace] [--merge] [--only id,id]"
}

func (restoreCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return ErrUsage
	}
	id := args[0]
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	replace := fs.Bool("replace", false, "очистить хранилище перед восстановлением")
	merge := fs.Bool("merge", false, "перезаписывать сущности с совпадающими id")
	only := fs.String("only", "", "восстановить только перечисленные id (через запятую)")
	if err := fs.Parse(args[1:]); err != nil {
		return ErrUsage
	}

	store, docs, done, err := openServices()
	if err != nil {
		return err
	}
	defer done()

	res := service.NewBackupService(store, docs).Restore(id, service.RestoreOptions{
		ReplaceExisting: *replace,
		MergeData:       *merge,
		OnlyIDs:         splitTags(*only),
	})
	for _, w := range res.Warnings {
		fmt.Fprintf(Out, "! %s\n", w)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(Out, "× %s\n", e)
	}
	if !res.Success {
		return fmt.Errorf("восстановление не выполнено")
	}
	fmt.Fprintf(Out, "✓ Восстановлено: биндеров %d, колод %d\n", res.RestoredBinders, res.RestoredDecks)
	return nil
}

func init() { RegisterCmd(restoreCmd{}) }
