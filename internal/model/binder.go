package model

import "time"

// Binder — серверная копия биндера пользователя. ID назначает клиент (uuid);
// вложенные массивы (карты, теги) хранятся как JSON-текст — сервер их не
// интерпретирует, только хранит и отдаёт.
type Binder struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	UserID int64  `gorm:"not null;index"` // ссылка на users.id

	// Связи
	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Name        string `gorm:"not null"`
	Description string
	Favorite    bool   `gorm:"not null;default:false"`
	Tags        []byte `gorm:"type:text"` // JSON-массив строк
	Cards       []byte `gorm:"type:text"` // JSON-массив карточных записей

	Created time.Time
	Updated time.Time `gorm:"index"`
}
