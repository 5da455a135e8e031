package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"BinderKeeper/internal/cli/model"
	"BinderKeeper/internal/cli/service"
	"BinderKeeper/internal/config"
)

type validateCmd struct{}

func (validateCmd) Name() string { return "validate" }
func (validateCmd) Description() string {
	return "Проверить колоду: структура и, при наличии банлиста, легальность"
}
func (validateCmd) Usage() string {
	return "validate <deck-id> [--banlist <file.json>]"
}

func (validateCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return ErrUsage
	}
	id := args[0]
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	banlistPath := fs.String("banlist", "", "путь к JSON-файлу банлиста")
	if err := fs.Parse(args[1:]); err != nil {
		return ErrUsage
	}

	store, docs, done, err := openServices()
	if err != nil {
		return err
	}
	defer done()

	deck, err := store.GetDeck(id)
	if err != nil {
		return err
	}
	legality := service.NewLegalityService(service.NewCardCacheService(docs))

	var res service.LegalityResult
	if *banlistPath != "" {
		raw, err := os.ReadFile(*banlistPath)
		if err != nil {
			return fmt.Errorf("read banlist: %w", err)
		}
		var banlist model.BanList
		if err := json.Unmarshal(raw, &banlist); err != nil {
			return fmt.Errorf("decode banlist: %w", err)
		}
		res = legality.ValidateComprehensive(deck, &banlist)
	} else {
		res = legality.ValidateStructure(deck)
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(Out, "! %s\n", w)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(Out, "× %s\n", e)
	}
	if res.Valid {
		fmt.Fprintf(Out, "✓ Колода %s прошла проверку\n", deck.Name)
	} else {
		fmt.Fprintf(Out, "× Колода %s не прошла проверку (%d ошибок)\n", deck.Name, len(res.Errors))
	}
	return nil
}

func init() { RegisterCmd(validateCmd{}) }
