package service

import (
	"testing"

	"BinderKeeper/internal/cli/model"

	"github.com/stretchr/testify/assert"
)

// fakeLookup — справочник карт на карте в памяти.
type fakeLookup map[int]model.Card

func (f fakeLookup) Card(id int) (*model.Card, bool) {
	c, ok := f[id]
	if !ok {
		return nil, false
	}
	return &c, true
}

// legalDeck — структурно корректная колода: 40 карт в main.
func legalDeck() *model.Deck {
	main := make([]model.DeckCard, 0, 14)
	for i := 1; i <= 13; i++ {
		main = append(main, model.DeckCard{CardID: i, Quantity: 3})
	}
	main = append(main, model.DeckCard{CardID: 14, Quantity: 1})
	return &model.Deck{
		ID:       "d1",
		Name:     "test",
		MainDeck: main,
	}
}

func TestLegality_ValidateStructure(t *testing.T) {
	s := NewLegalityService(nil)

	t.Run("legal deck", func(t *testing.T) {
		res := s.ValidateStructure(legalDeck())
		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)
	})

	t.Run("main deck too small", func(t *testing.T) {
		d := &model.Deck{MainDeck: []model.DeckCard{{CardID: 1, Quantity: 3}}}
		res := s.ValidateStructure(d)
		assert.False(t, res.Valid)
	})

	t.Run("extra and side over the limit", func(t *testing.T) {
		d := legalDeck()
		d.ExtraDeck = []model.DeckCard{{CardID: 100, Quantity: 16}}
		d.SideDeck = []model.DeckCard{{CardID: 101, Quantity: 16}}
		res := s.ValidateStructure(d)
		assert.False(t, res.Valid)
		assert.Len(t, res.Errors, 4)
	})

	t.Run("copies counted across sections", func(t *testing.T) {
		d := legalDeck()
		// карта 1 уже трижды в main; ещё одна копия в side превышает лимит
		d.SideDeck = []model.DeckCard{{CardID: 1, Quantity: 1}}
		res := s.ValidateStructure(d)
		assert.False(t, res.Valid)
	})
}

func TestLegality_ValidateBanlist(t *testing.T) {
	cards := fakeLookup{
		1: {ID: 1, Name: "Alpha"},
		2: {ID: 2, Name: "Beta"},
	}
	s := NewLegalityService(cards)

	banlist := &model.BanList{
		Name:        "TCG",
		Forbidden:   []int{1},
		Limited:     []int{2},
		SemiLimited: []int{3},
	}

	t.Run("forbidden card is an error", func(t *testing.T) {
		d := &model.Deck{MainDeck: []model.DeckCard{{CardID: 1, Quantity: 1}}}
		res := s.ValidateBanlist(d, banlist)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors[0], "Alpha")
		assert.Contains(t, res.Errors[0], "forbidden")
	})

	t.Run("tier caps are enforced across sections", func(t *testing.T) {
		d := &model.Deck{
			MainDeck: []model.DeckCard{{CardID: 2, Quantity: 1}, {CardID: 3, Quantity: 2}},
			SideDeck: []model.DeckCard{{CardID: 2, Quantity: 1}},
		}
		res := s.ValidateBanlist(d, banlist)
		assert.False(t, res.Valid)
		// limited-карта дважды — ошибка; semi-limited дважды — в пределах лимита
		assert.Len(t, res.Errors, 1)
	})

	t.Run("card missing from the database is a warning", func(t *testing.T) {
		d := &model.Deck{MainDeck: []model.DeckCard{{CardID: 999, Quantity: 1}}}
		res := s.ValidateBanlist(d, banlist)
		assert.True(t, res.Valid)
		assert.NotEmpty(t, res.Warnings)
	})

	t.Run("unknown card skips the banlist check entirely", func(t *testing.T) {
		// карта 4 запрещена банлистом, но отсутствует в справочнике:
		// только предупреждение, лимит не применяется
		bl := &model.BanList{Name: "TCG", Forbidden: []int{4}}
		d := &model.Deck{MainDeck: []model.DeckCard{{CardID: 4, Quantity: 3}}}
		res := s.ValidateBanlist(d, bl)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)
		assert.Len(t, res.Warnings, 1)
	})
}

func TestLegality_ValidateComprehensive(t *testing.T) {
	s := NewLegalityService(fakeLookup{1: {ID: 1, Name: "Alpha"}})
	banlist := &model.BanList{Name: "TCG", Forbidden: []int{1}}

	d := legalDeck() // содержит карту 1 трижды
	res := s.ValidateComprehensive(d, banlist)
	assert.False(t, res.Valid)
	// структурных ошибок нет, но банлист запрещает карту 1
	assert.NotEmpty(t, res.Errors)
}
