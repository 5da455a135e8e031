package model

// DeckSection — имя секции колоды.
const (
	SectionMain  = "main"
	SectionExtra = "extra"
	SectionSide  = "side"
)

// DeckCard — позиция в секции колоды.
// Повторные записи с одним cardId в секции семантически складываются.
type DeckCard struct {
	CardID   int `json:"cardId"`
	Quantity int `json:"quantity"`
}

// Deck — колода из трёх секций (main/extra/side).
type Deck struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Format      string     `json:"format,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   int64      `json:"createdAt"`
	ModifiedAt  int64      `json:"modifiedAt"`
	MainDeck    []DeckCard `json:"mainDeck"`
	ExtraDeck   []DeckCard `json:"extraDeck"`
	SideDeck    []DeckCard `json:"sideDeck"`
}

// Section возвращает срез карт указанной секции (nil для неизвестного имени).
func (d *Deck) Section(name string) []DeckCard {
	switch name {
	case SectionMain:
		return d.MainDeck
	case SectionExtra:
		return d.ExtraDeck
	case SectionSide:
		return d.SideDeck
	}
	return nil
}

// SectionTotal суммирует количество копий в секции.
func SectionTotal(cards []DeckCard) int {
	total := 0
	for _, c := range cards {
		total += c.Quantity
	}
	return total
}

// AggregateQuantities агрегирует количество по cardId по всем трём секциям.
// Возвращает также вклад секций: cardId -> имена секций, где карта встречается.
func (d *Deck) AggregateQuantities() (map[int]int, map[int][]string) {
	totals := map[int]int{}
	sections := map[int][]string{}
	add := func(cards []DeckCard, name string) {
		seen := map[int]bool{}
		for _, c := range cards {
			totals[c.CardID] += c.Quantity
			if !seen[c.CardID] {
				sections[c.CardID] = append(sections[c.CardID], name)
				seen[c.CardID] = true
			}
		}
	}
	add(d.MainDeck, SectionMain)
	add(d.ExtraDeck, SectionExtra)
	add(d.SideDeck, SectionSide)
	return totals, sections
}
