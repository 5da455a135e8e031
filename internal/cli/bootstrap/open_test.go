package bootstrap

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"BinderKeeper/internal/cli/auth"
)

// helper: временный пользовательский конфиг для тестов
func setTempCfg(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	// база клиентов хранится в CLIENT_DB_PATH
	db := filepath.Join(dir, "db")
	_ = os.MkdirAll(db, 0o700)
	t.Setenv("CLIENT_DB_PATH", db)
	return dir
}

func TestOpenStore_SuccessAndCleanup(t *testing.T) {
	setTempCfg(t)
	// сохраняем активный логин
	if err := auth.SaveLastLogin("john"); err != nil {
		t.Fatalf("save login: %v", err)
	}
	st, done, err := OpenStore()
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	// хранилище должно быть рабочим — попробуем записать документ
	if err := st.WriteDocs(map[string][]byte{"probe": []byte(`{}`)}); err != nil {
		t.Fatalf("WriteDocs: %v", err)
	}
	if err := done(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	// повторный вызов cleanup не должен паниковать/падать
	_ = done()
}

func TestOpenStore_ErrorWhenNoLogin(t *testing.T) {
	setTempCfg(t)
	if _, _, err := OpenStore(); err == nil {
		t.Fatalf("expected error when no active login saved")
	}
}

// Доп.кейс: ошибка OpenForUser — когда CLIENT_DB_PATH указывает на обычный файл
func TestOpenStore_FailsWhenClientDBPathIsFile(t *testing.T) {
	dir := setTempCfg(t)
	if err := auth.SaveLastLogin("john"); err != nil {
		t.Fatalf("save login: %v", err)
	}
	tmpFile := filepath.Join(dir, "not_dir")
	if err := os.WriteFile(tmpFile, []byte("x"), 0o600); err != nil {
		t.Fatalf("prepare tmp file: %v", err)
	}
	t.Setenv("CLIENT_DB_PATH", tmpFile)
	if _, _, err := OpenStore(); err == nil {
		t.Fatalf("expected error when CLIENT_DB_PATH points to file, got nil")
	}
}
