package bootstrap

import (
	"fmt"

	"BinderKeeper/internal/cli/auth"
	reposqlite "BinderKeeper/internal/cli/repo/sqlite"
	"BinderKeeper/internal/cli/service"
)

// OpenStore открывает документное хранилище текущего пользователя,
// выполняет миграции и возвращает (store, cleanup, error).
// cleanup необходимо вызвать после окончания работы, чтобы закрыть соединение с БД.
func OpenStore() (*reposqlite.DocumentStoreSQLite, func() error, error) {
	login, err := auth.LoadLastLogin()
	if err != nil {
		return nil, nil, fmt.Errorf("нет активного пользователя: выполните login/register: %w", err)
	}
	st, _, err := reposqlite.OpenForUser(login)
	if err != nil {
		return nil, nil, fmt.Errorf("open user db: %w", err)
	}
	if err := st.Migrate(); err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("migrate user db: %w", err)
	}
	if err := service.MigrateSchema(st); err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("migrate schema: %w", err)
	}
	cleanup := func() error { return st.Close() }
	return st, cleanup, nil
}
