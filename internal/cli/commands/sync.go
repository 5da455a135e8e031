package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"BinderKeeper/internal/cli/api"
	"BinderKeeper/internal/cli/service"
	"BinderKeeper/internal/config"
)

type syncCmd struct{}

func (syncCmd) Name() string { return "sync" }
func (syncCmd) Description() string {
	return "Синхронизировать ожидающие изменения с сервером"
}
func (syncCmd) Usage() string {
	return "sync [--policy manual|local|remote] [--force]"
}

func (syncCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	policy := fs.String("policy", service.PolicyManual, "политика разрешения конфликтов: manual|local|remote")
	force := fs.Bool("force", false, "запустить, даже если предыдущий проход ещё выполняется")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	if cfg.OfflineMode {
		return errors.New("офлайн-режим: синхронизация недоступна")
	}

	store, _, done, err := openServices()
	if err != nil {
		return err
	}
	defer done()

	fmt.Fprintln(Out, "→ Запуск синхронизации…")
	sync := service.NewSyncService(store, api.NewClient(cfg))
	res, err := sync.RunPass(ctx, *policy, *force)
	if err != nil {
		if errors.Is(err, service.ErrSyncBusy) {
			fmt.Fprintln(Out, "• Синхронизация уже выполняется (повторите с --force)")
			return nil
		}
		return err
	}
	printSyncSummary(res)
	return nil
}

func printSyncSummary(res service.SyncResult) {
	if res.Uploaded > 0 {
		fmt.Fprintf(Out, "✓ Согласовано записей: %d\n", res.Uploaded)
	}
	if res.Conflicted > 0 {
		fmt.Fprintf(Out, "! Новых конфликтов: %d (см. status, затем resolve)\n", res.Conflicted)
	}
	if res.Failed > 0 {
		fmt.Fprintf(Out, "× Ошибок: %d\n", res.Failed)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(Out, "! %s\n", w)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(Out, "× %s\n", e)
	}
	if res.Success {
		fmt.Fprintln(Out, "• Синхронизация завершена: ожидающих изменений нет")
	}
}

func init() { RegisterCmd(syncCmd{}) }
