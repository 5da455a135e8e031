package commands

import (
	"context"
	"fmt"

	"BinderKeeper/internal/cli/api"
	"BinderKeeper/internal/cli/service"
	"BinderKeeper/internal/config"
)

type resolveCmd struct{}

func (resolveCmd) Name() string { return "resolve" }
func (resolveCmd) Description() string {
	return "Разрешить зафиксированный конфликт синхронизации"
}
func (resolveCmd) Usage() string { return "resolve <binder|deck> <id> <local|remote>" }

func (resolveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 3 {
		return ErrUsage
	}
	store, _, done, err := openServices()
	if err != nil {
		return err
	}
	defer done()

	sync := service.NewSyncService(store, api.NewClient(cfg))
	if err := sync.ResolveConflict(args[0], args[1], args[2]); err != nil {
		return err
	}
	fmt.Fprintf(Out, "✓ Конфликт %s %s разрешён (%s)\n", args[0], args[1], args[2])
	return nil
}

func init() { RegisterCmd(resolveCmd{}) }
