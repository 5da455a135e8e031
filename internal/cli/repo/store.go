package repo

import "errors"

// Ключи именованных документов локального хранилища.
const (
	DocBinders    = "containers-list"
	DocDecks      = "decks-list"
	DocCardCache  = "card-cache"
	DocAppConfig  = "app-config"
	DocSyncStatus = "sync-status"
	DocBackupIdx  = "backup-index"

	// BackupDocPrefix + id — документ с полным снапшотом.
	BackupDocPrefix = "backup:"
)

// ErrNotFound возвращается при отсутствии документа.
var ErrNotFound = errors.New("document not found")

// ErrStorage — ошибка сериализации/ввода-вывода; операция прервана,
// частичное состояние не наблюдаемо.
var ErrStorage = errors.New("storage failure")

// Store определяет порт доступа к локальному хранилищу:
// небольшой набор именованных JSON-документов.
type Store interface {
	// ReadDoc читает документ по ключу. Отсутствие — ErrNotFound.
	ReadDoc(key string) ([]byte, error)

	// WriteDocs атомарно записывает набор документов (одна транзакция).
	// Значение nil означает удаление ключа.
	WriteDocs(docs map[string][]byte) error

	// ListKeys возвращает ключи с указанным префиксом в порядке возрастания.
	ListKeys(prefix string) ([]string, error)
}
