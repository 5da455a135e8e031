package commands

import (
	"context"
	"fmt"

	"BinderKeeper/internal/cli/service"
	"BinderKeeper/internal/config"
)

type repairCmd struct{}

func (repairCmd) Name() string { return "repair" }
func (repairCmd) Description() string {
	return "Проверить и починить локальные данные по схеме"
}
func (repairCmd) Usage() string { return "repair" }

func (repairCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	_, docs, done, err := openServices()
	if err != nil {
		return err
	}
	defer done()

	res := service.NewValidatorService(docs).RepairData()
	for _, line := range res.Issues {
		fmt.Fprintf(Out, "! %s\n", line)
	}
	if !res.Success {
		return fmt.Errorf("починка не выполнена")
	}
	if res.RepairedBinders == 0 && res.RepairedDecks == 0 {
		fmt.Fprintln(Out, "• Данные корректны, изменений не потребовалось")
		return nil
	}
	fmt.Fprintf(Out, "✓ Починено: биндеров %d, колод %d\n", res.RepairedBinders, res.RepairedDecks)
	return nil
}

func init() { RegisterCmd(repairCmd{}) }
