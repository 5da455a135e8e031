package format

import (
	"encoding/json"
	"fmt"

	"BinderKeeper/internal/cli/model"

	"github.com/google/uuid"
)

// ExportBinderJSON сериализует биндер с полной точностью.
// При stripMetadata из вывода убираются несущественные метаданные
// (описание, теги, пометки копий) — остаётся ядро cardId/quantity.
func ExportBinderJSON(b *model.Binder, stripMetadata bool) ([]byte, error) {
	out := *b
	if stripMetadata {
		out.Description = ""
		out.Tags = nil
		cards := make([]model.BinderCard, len(b.Cards))
		for i, c := range b.Cards {
			cards[i] = model.BinderCard{CardID: c.CardID, Quantity: c.Quantity}
		}
		out.Cards = cards
	}
	return json.MarshalIndent(&out, "", "  ")
}

// ExportDeckJSON сериализует колоду с полной точностью.
func ExportDeckJSON(d *model.Deck, stripMetadata bool) ([]byte, error) {
	out := *d
	if stripMetadata {
		out.Description = ""
		out.Tags = nil
		out.Notes = ""
	}
	return json.MarshalIndent(&out, "", "  ")
}

// ImportBinderJSON разбирает JSON-биндер. Импортированной сущности всегда
// назначается новый id, чтобы избежать коллизий с существующими данными.
// Карточные записи с некорректными id/quantity пропускаются с предупреждением.
func ImportBinderJSON(data []byte) (*model.Binder, ImportResult) {
	var res ImportResult
	var b model.Binder
	if err := json.Unmarshal(data, &b); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("unparseable JSON: %v", err))
		return nil, res
	}
	b.ID = uuid.NewString()
	kept := b.Cards[:0]
	for i, c := range b.Cards {
		if c.CardID < 1 || c.Quantity < 1 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("card %d skipped: invalid cardId/quantity", i+1))
			continue
		}
		kept = append(kept, c)
	}
	b.Cards = kept
	res.ImportedCards = len(kept)
	if res.ImportedCards == 0 {
		res.Errors = append(res.Errors, "no valid card records in JSON input")
		return nil, res
	}
	res.Success = true
	return &b, res
}

// ImportDeckJSON разбирает JSON-колоду с назначением нового id.
func ImportDeckJSON(data []byte) (*model.Deck, ImportResult) {
	var res ImportResult
	var d model.Deck
	if err := json.Unmarshal(data, &d); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("unparseable JSON: %v", err))
		return nil, res
	}
	d.ID = uuid.NewString()
	clean := func(section string, cards []model.DeckCard) []model.DeckCard {
		kept := cards[:0]
		for i, c := range cards {
			if c.CardID < 1 || c.Quantity < 1 {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s card %d skipped: invalid cardId/quantity", section, i+1))
				continue
			}
			kept = append(kept, c)
		}
		return kept
	}
	d.MainDeck = clean(model.SectionMain, d.MainDeck)
	d.ExtraDeck = clean(model.SectionExtra, d.ExtraDeck)
	d.SideDeck = clean(model.SectionSide, d.SideDeck)
	res.ImportedCards = len(d.MainDeck) + len(d.ExtraDeck) + len(d.SideDeck)
	if res.ImportedCards == 0 {
		res.Errors = append(res.Errors, "no valid card records in JSON input")
		return nil, res
	}
	res.Success = true
	return &d, res
}
