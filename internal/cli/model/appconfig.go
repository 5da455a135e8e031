package model

// SchemaVersion — текущая версия схемы локальных документов.
const SchemaVersion = 1

// AppConfig — пользовательские настройки приложения (хранятся в локальной БД,
// а не выводятся из состояния).
type AppConfig struct {
	SchemaVersion int  `json:"schemaVersion"`
	OfflineMode   bool `json:"offlineMode"`
	AutoBackup    bool `json:"autoBackup"`
	// BackupInterval — период автоматических бэкапов в минутах.
	BackupInterval int `json:"backupInterval"`
	MaxBackups     int `json:"maxBackups"`
	// Зарезервированные флаги: поведения пока не имеют.
	IncludeCardCache   bool   `json:"includeCardCache"`
	CompressionEnabled bool   `json:"compressionEnabled"`
	FavoriteBanlistID  string `json:"favoriteBanlistId,omitempty"`
}

// DefaultAppConfig возвращает настройки по умолчанию.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		SchemaVersion:  SchemaVersion,
		AutoBackup:     false,
		BackupInterval: 60,
		MaxBackups:     5,
	}
}
