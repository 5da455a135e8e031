package model

// BinderCard — одна позиция в биндере: карта и количество копий с метаданными копии.
type BinderCard struct {
	CardID    int      `json:"cardId"`
	Quantity  int      `json:"quantity"`
	CardName  string   `json:"cardName,omitempty"`
	SetCode   string   `json:"setCode,omitempty"`
	Rarity    string   `json:"rarity,omitempty"`
	Condition string   `json:"condition,omitempty"`
	Edition   string   `json:"edition,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Binder — коллекция карт пользователя (контейнер).
// Среди всех биндеров не более одного с IsFavorite = true.
type Binder struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	IsFavorite  bool         `json:"isFavorite"`
	CreatedAt   int64        `json:"createdAt"`
	ModifiedAt  int64        `json:"modifiedAt"`
	Cards       []BinderCard `json:"cards"`
}

// TotalCards возвращает суммарное количество копий карт в биндере.
func (b *Binder) TotalCards() int {
	total := 0
	for _, c := range b.Cards {
		total += c.Quantity
	}
	return total
}

// CardMultiset агрегирует позиции в отображение cardId -> суммарное количество.
// Дубликаты позиций по одному cardId складываются.
func (b *Binder) CardMultiset() map[int]int {
	m := make(map[int]int, len(b.Cards))
	for _, c := range b.Cards {
		m[c.CardID] += c.Quantity
	}
	return m
}
