package commands

import (
	"context"
	"fmt"
	"time"

	"BinderKeeper/internal/cli/service"
	"BinderKeeper/internal/config"
)

type backupCmd struct{}

func (backupCmd) Name() string { return "backup" }
func (backupCmd) Description() string {
	return "Сделать ручной снапшот всех данных"
}
func (backupCmd) Usage() string { return "backup" }

func (backupCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	store, docs, done, err := openServices()
	if err != nil {
		return err
	}
	defer done()

	meta, err := service.NewBackupService(store, docs).CreateBackup(false)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Снапшот создан:")
	fmt.Fprintf(Out, "  id:   %s\n", meta.ID)
	fmt.Fprintf(Out, "  time: %s\n", time.Unix(meta.Timestamp, 0).Format(time.RFC3339))
	fmt.Fprintf(Out, "  size: %d байт\n", meta.SizeBytes)
	return nil
}

func init() { RegisterCmd(backupCmd{}) }

type backupsCmd struct{}

func (backupsCmd) Name() string { return "backups" }
func (backupsCmd) Description() string {
	return "Показать снапшоты (новые первыми)"
}
func (backupsCmd) Usage() string { return "backups" }

func (backupsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	store, docs, done, err := openServices()
	if err != nil {
		return err
	}
	defer done()

	list, err := service.NewBackupService(store, docs).ListBackups()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "Нет снапшотов")
		return nil
	}
	for _, m := range list {
		kind := "manual"
		if m.IsAutomatic {
			kind = "auto"
		}
		fmt.Fprintf(Out, "- %s  %s  %s  %d байт\n",
			m.ID, time.Unix(m.Timestamp, 0).Format(time.RFC3339), kind, m.SizeBytes)
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(list))
	return nil
}

func init() { RegisterCmd(backupsCmd{}) }
