package service

import (
	"encoding/json"
	"fmt"

	"BinderKeeper/internal/cli/model"
	"BinderKeeper/internal/cli/repo"
)

// MigrateSchema приводит локальные документы к текущей версии схемы.
// Версия читается из app-config; распознаётся только тождественный переход
// (текущая → текущая), любой другой путь — ошибка. При отсутствии сохранённой
// версии документ считается текущим и версия записывается.
func MigrateSchema(docs repo.Store) error {
	raw, err := docs.ReadDoc(repo.DocAppConfig)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil
		}
		return err
	}
	var cfg model.AppConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("%w: decode app config: %v", repo.ErrStorage, err)
	}
	switch cfg.SchemaVersion {
	case 0:
		cfg.SchemaVersion = model.SchemaVersion
		out, err := json.Marshal(&cfg)
		if err != nil {
			return fmt.Errorf("%w: encode app config: %v", repo.ErrStorage, err)
		}
		return docs.WriteDocs(map[string][]byte{repo.DocAppConfig: out})
	case model.SchemaVersion:
		return nil
	default:
		return fmt.Errorf("unsupported migration path: schema v%d -> v%d", cfg.SchemaVersion, model.SchemaVersion)
	}
}
