package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"BinderKeeper/internal/cli/auth"
	"BinderKeeper/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setTempEnv изолирует конфиг и БД пользователя во временные каталоги.
func setTempEnv(t *testing.T) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "cfg"))
	t.Setenv("APPDATA", filepath.Join(tmp, "cfg"))
	t.Setenv("CLIENT_DB_PATH", filepath.Join(tmp, "db"))
	require.NoError(t, auth.SaveLastLogin("tester"))
}

func TestBinderFlow(t *testing.T) {
	setTempEnv(t)
	cfg := &config.Config{OfflineMode: true}
	ctx := context.Background()

	t.Run("add then list", func(t *testing.T) {
		buf := captureOut(t)
		require.Equal(t, 0, Dispatch(ctx, cfg, []string{"binder-add", "Trades", "--desc", "up for trade", "--favorite"}))
		assert.Contains(t, buf.String(), "Trades")

		buf = captureOut(t)
		require.Equal(t, 0, Dispatch(ctx, cfg, []string{"binders"}))
		assert.Contains(t, buf.String(), "Trades")
	})

	t.Run("status reports pending changes", func(t *testing.T) {
		buf := captureOut(t)
		require.Equal(t, 0, Dispatch(ctx, cfg, []string{"status"}))
		assert.Contains(t, buf.String(), "биндеров 1")
		assert.Contains(t, buf.String(), "офлайн-режим")
	})

	t.Run("missing name is a usage error", func(t *testing.T) {
		captureOut(t)
		assert.Equal(t, 2, Dispatch(ctx, cfg, []string{"binder-add"}))
	})
}

func TestDeckFlowAndDelete(t *testing.T) {
	setTempEnv(t)
	cfg := &config.Config{OfflineMode: true}
	ctx := context.Background()

	buf := captureOut(t)
	require.Equal(t, 0, Dispatch(ctx, cfg, []string{"deck-add", "Dragons", "--format", "TCG"}))
	require.Equal(t, 0, Dispatch(ctx, cfg, []string{"decks"}))
	assert.Contains(t, buf.String(), "Dragons")
	assert.Contains(t, buf.String(), "main=0 extra=0 side=0")

	// удаление неизвестного id — ошибка выполнения, не usage
	captureOut(t)
	assert.Equal(t, 1, Dispatch(ctx, cfg, []string{"delete", "deck", "no-such-id"}))
	assert.Equal(t, 2, Dispatch(ctx, cfg, []string{"delete", "deck"}))
}

func TestStatusTriggersSyncWhenServerOnline(t *testing.T) {
	setTempEnv(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/user/test":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"result":"ok"}`))
		case r.Method == http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut:
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer ts.Close()

	cfg := &config.Config{ServerURL: ts.URL}
	ctx := context.Background()

	captureOut(t)
	require.Equal(t, 0, Dispatch(ctx, cfg, []string{"binder-add", "Trades"}))

	// сервер доступен, изменение ожидает отправки: status запускает проход
	buf := captureOut(t)
	require.Equal(t, 0, Dispatch(ctx, cfg, []string{"status"}))
	assert.Contains(t, buf.String(), "отправка ожидающих изменений")
	assert.Contains(t, buf.String(), "Согласовано записей: 1")

	// повторный status: ожидающих изменений больше нет, проход не запускается
	buf = captureOut(t)
	require.Equal(t, 0, Dispatch(ctx, cfg, []string{"status"}))
	assert.Contains(t, buf.String(), "биндеров 0")
	assert.NotContains(t, buf.String(), "отправка ожидающих изменений")
}

func TestBackupFlow(t *testing.T) {
	setTempEnv(t)
	cfg := &config.Config{OfflineMode: true}
	ctx := context.Background()

	buf := captureOut(t)
	require.Equal(t, 0, Dispatch(ctx, cfg, []string{"binder-add", "ToKeep"}))
	require.Equal(t, 0, Dispatch(ctx, cfg, []string{"backup"}))
	require.Equal(t, 0, Dispatch(ctx, cfg, []string{"backups"}))
	assert.NotEmpty(t, buf.String())
}

func TestCommandsRequireLogin(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "cfg"))
	t.Setenv("APPDATA", filepath.Join(tmp, "cfg"))
	t.Setenv("CLIENT_DB_PATH", filepath.Join(tmp, "db"))

	captureOut(t)
	cfg := &config.Config{OfflineMode: true}
	// нет активного пользователя — команды хранилища завершаются ошибкой
	assert.Equal(t, 1, Dispatch(context.Background(), cfg, []string{"binders"}))
}
