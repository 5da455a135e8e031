package model

// BackupPayload — полная копия пользовательских данных внутри снапшота.
type BackupPayload struct {
	Binders []Binder  `json:"binders"`
	Decks   []Deck    `json:"decks"`
	Config  AppConfig `json:"config"`
}

// BackupSnapshot — точка восстановления: полная копия данных плюс метаданные.
type BackupSnapshot struct {
	ID            string        `json:"id"`
	Timestamp     int64         `json:"timestamp"`
	SchemaVersion int           `json:"schemaVersion"`
	IsAutomatic   bool          `json:"isAutomatic"`
	SizeBytes     int64         `json:"sizeBytes"`
	Payload       BackupPayload `json:"payload"`
}

// BackupMeta — запись в индексе бэкапов (без полезной нагрузки).
// Seq — сквозной порядковый номер создания: метка времени имеет секундную
// точность, поэтому порядок снапшотов внутри одной секунды определяет Seq.
type BackupMeta struct {
	ID            string `json:"id"`
	Timestamp     int64  `json:"timestamp"`
	Seq           int64  `json:"seq"`
	SchemaVersion int    `json:"schemaVersion"`
	IsAutomatic   bool   `json:"isAutomatic"`
	SizeBytes     int64  `json:"sizeBytes"`
}
