package model

import "time"

// Deck — серверная копия колоды пользователя. Как и у Binder, вложенные
// секции хранятся непрозрачным JSON-текстом.
type Deck struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	UserID int64  `gorm:"not null;index"`

	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Name        string `gorm:"not null"`
	Description string
	Format      string
	Notes       string
	Tags        []byte `gorm:"type:text"` // JSON-массив строк
	Main        []byte `gorm:"type:text"` // JSON-массив позиций
	Extra       []byte `gorm:"type:text"`
	Side        []byte `gorm:"type:text"`

	Created time.Time
	Updated time.Time `gorm:"index"`
}
