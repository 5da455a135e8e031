package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"BinderKeeper/internal/cli/api"
	"BinderKeeper/internal/cli/auth"
	"BinderKeeper/internal/cli/service"
	"BinderKeeper/internal/config"
)

type dataResponse struct {
	Result string `json:"result"`
}

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Показать состояние синхронизации и связь с сервером" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}

	store, _, done, err := openServices()
	if err != nil {
		return err
	}
	defer done()

	st, err := store.SyncStatus()
	if err != nil {
		return err
	}
	if st.LastSync == 0 {
		fmt.Fprintln(Out, "Последняя синхронизация: никогда")
	} else {
		fmt.Fprintf(Out, "Последняя синхронизация: %s\n", time.Unix(st.LastSync, 0).Format(time.RFC3339))
	}
	fmt.Fprintf(Out, "Ожидают отправки: биндеров %d, колод %d\n",
		len(st.PendingChanges.Binders), len(st.PendingChanges.Decks))
	if len(st.Conflicts) > 0 {
		fmt.Fprintf(Out, "Конфликты (%d):\n", len(st.Conflicts))
		for _, c := range st.Conflicts {
			fmt.Fprintf(Out, "  - %s %s  local=%d remote=%d\n",
				c.EntityType, c.ID, c.LocalModifiedAt, c.RemoteModifiedAt)
		}
	}

	if cfg.OfflineMode {
		fmt.Fprintln(Out, "Сервер: офлайн-режим, проверка пропущена")
		return nil
	}
	endpoint := strings.TrimRight(cfg.ServerURL, "/") + "/api/user/test"
	token, _ := auth.LoadToken()
	resp, body, err := api.PostJSON(endpoint, struct{}{}, token)
	if err != nil {
		fmt.Fprintf(Out, "Сервер: недоступен (%v)\n", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(Out, "Сервер: статус %d: %s\n", resp.StatusCode, strings.TrimSpace(string(body)))
		return nil
	}
	var dr dataResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Fprintln(Out, "Сервер:", dr.Result)

	// сервер снова доступен: при наличии ожидающих изменений запускаем
	// одиночный проход синхронизации с ручной политикой
	if len(st.PendingChanges.Binders)+len(st.PendingChanges.Decks) > 0 {
		fmt.Fprintln(Out, "→ Сервер доступен, отправка ожидающих изменений…")
		sync := service.NewSyncService(store, api.NewClient(cfg))
		res, err := sync.OnNetworkOnline(ctx)
		if err != nil {
			fmt.Fprintf(Out, "× Синхронизация не выполнена: %v\n", err)
			return nil
		}
		printSyncSummary(res)
	}
	return nil
}

func init() { RegisterCmd(statusCmd{}) }
