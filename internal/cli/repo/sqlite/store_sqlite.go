package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"BinderKeeper/internal/cli/repo"

	_ "modernc.org/sqlite"
)

// DocumentStoreSQLite — хранилище именованных JSON-документов поверх SQLite.
type DocumentStoreSQLite struct {
	db    *sql.DB
	login string
}

var _ repo.Store = (*DocumentStoreSQLite)(nil)

// OpenForUser открывает (и создаёт при необходимости) файл БД для указанного логина
// и возвращает хранилище. Вторым значением возвращается путь к БД.
func OpenForUser(login string) (*DocumentStoreSQLite, string, error) {
	if login == "" {
		return nil, "", errors.New("empty login for user store")
	}
	base := os.Getenv("CLIENT_DB_PATH")
	if base == "" {
		cfgDir, err := os.UserConfigDir()
		if err != nil {
			return nil, "", err
		}
		base = filepath.Join(cfgDir, "BinderKeeper", "users")
	}
	dir := filepath.Join(base, login)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", err
	}
	dbPath := filepath.Join(dir, "client.sqlite")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, "", err
	}
	return &DocumentStoreSQLite{db: db, login: login}, dbPath, nil
}

// OpenPath открывает хранилище по явному пути к файлу БД (используется в тестах).
func OpenPath(dbPath string) (*DocumentStoreSQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	return &DocumentStoreSQLite{db: db}, nil
}

// Close закрывает соединение с БД.
func (s *DocumentStoreSQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate гарантирует наличие необходимых таблиц/индексов.
func (s *DocumentStoreSQLite) Migrate() error {
	if _, err := s.db.Exec(initialDDL()); err != nil {
		return fmt.Errorf("%w: migrate: %v", repo.ErrStorage, err)
	}
	return nil
}

// ReadDoc читает документ по ключу.
func (s *DocumentStoreSQLite) ReadDoc(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM documents WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("%w: read %q: %v", repo.ErrStorage, key, err)
	}
	return value, nil
}

// WriteDocs атомарно применяет набор записей/удалений в одной транзакции.
// При любой ошибке транзакция откатывается целиком.
func (s *DocumentStoreSQLite) WriteDocs(docs map[string][]byte) error {
	if len(docs) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin: %v", repo.ErrStorage, err)
	}
	defer func() {
		// при panic или некоммите — откат
		_ = tx.Rollback()
	}()

	now := time.Now().Unix()
	for key, value := range docs {
		if value == nil {
			if _, err := tx.Exec(`DELETE FROM documents WHERE key = ?`, key); err != nil {
				return fmt.Errorf("%w: delete %q: %v", repo.ErrStorage, key, err)
			}
			continue
		}
		_, err := tx.Exec(`INSERT INTO documents(key, value, updated_at) VALUES(?, ?, ?)
            ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, now)
		if err != nil {
			return fmt.Errorf("%w: write %q: %v", repo.ErrStorage, key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", repo.ErrStorage, err)
	}
	return nil
}

// ListKeys возвращает ключи с указанным префиксом, отсортированные по возрастанию.
func (s *DocumentStoreSQLite) ListKeys(prefix string) ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM documents WHERE key LIKE ? || '%' ORDER BY key`, prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: list keys: %v", repo.ErrStorage, err)
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("%w: scan key: %v", repo.ErrStorage, err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
