package model

// Card — кэшированные метаданные карты, полученные с сервера.
type Card struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	Race      string `json:"race,omitempty"`
	Level     int    `json:"level,omitempty"`
	ATK       int    `json:"atk,omitempty"`
	DEF       int    `json:"def,omitempty"`
	// CachedAt — unix-время записи в кэш; используется для TTL-вытеснения.
	CachedAt int64 `json:"cachedAt"`
}
