package commands

import (
	"BinderKeeper/internal/cli/bootstrap"
	reposqlite "BinderKeeper/internal/cli/repo/sqlite"
	"BinderKeeper/internal/cli/service"
)

// openServices открывает хранилище текущего пользователя и собирает типовой
// набор сервисов поверх него. Авто-бэкап подключается хуком к сохранениям.
// cleanup закрывает соединение с БД.
func openServices() (*service.StoreService, *reposqlite.DocumentStoreSQLite, func() error, error) {
	st, done, err := bootstrap.OpenStore()
	if err != nil {
		return nil, nil, nil, err
	}
	store := service.NewStoreService(st)
	backup := service.NewBackupService(store, st)
	store.SetOnSave(backup.AutoBackupHook)
	return store, st, done, nil
}
