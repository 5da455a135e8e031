package format

import (
	"fmt"
	"strconv"
	"strings"

	"BinderKeeper/internal/cli/model"

	"github.com/google/uuid"
)

// Дисковые маркеры секций YDK — фиксированный контракт совместимости
// с уже экспортированными файлами (регистрозависимые префиксы).
const (
	ydkMainMarker  = "#main"
	ydkExtraMarker = "#extra"
	ydkSideMarker  = "!side"
)

// ExportDeckYDK пишет колоду в построчный формат: маркеры секций,
// затем по одной строке с id на каждую копию карты.
func ExportDeckYDK(d *model.Deck) []byte {
	var sb strings.Builder
	sb.WriteString("#created by BinderKeeper\n")
	fmt.Fprintf(&sb, "# Deck: %s\n", d.Name)
	if d.Format != "" {
		fmt.Fprintf(&sb, "# Format: %s\n", d.Format)
	}
	writeSection := func(marker string, cards []model.DeckCard) {
		sb.WriteString(marker + "\n")
		for _, c := range cards {
			for i := 0; i < c.Quantity; i++ {
				sb.WriteString(strconv.Itoa(c.CardID) + "\n")
			}
		}
	}
	writeSection(ydkMainMarker, d.MainDeck)
	writeSection(ydkExtraMarker, d.ExtraDeck)
	writeSection(ydkSideMarker, d.SideDeck)
	return []byte(sb.String())
}

// ImportDeckYDK разбирает построчный формат в колоду со свежим id.
// Строка с "#", содержащая "main"/"extra", переключает секцию; строка,
// начинающаяся с "!side", выбирает side. Числовые строки — по одной копии
// карты в активной секции; повторы одного id складываются в одну запись.
func ImportDeckYDK(data []byte, name string) (*model.Deck, ImportResult) {
	var res ImportResult
	d := &model.Deck{
		ID:        uuid.NewString(),
		Name:      name,
		MainDeck:  []model.DeckCard{},
		ExtraDeck: []model.DeckCard{},
		SideDeck:  []model.DeckCard{},
	}

	section := ""
	// порядок появления id в секции сохраняется
	index := map[string]map[int]int{
		model.SectionMain:  {},
		model.SectionExtra: {},
		model.SectionSide:  {},
	}

	appendCard := func(section string, cardID int) {
		var cards *[]model.DeckCard
		switch section {
		case model.SectionMain:
			cards = &d.MainDeck
		case model.SectionExtra:
			cards = &d.ExtraDeck
		case model.SectionSide:
			cards = &d.SideDeck
		}
		if i, ok := index[section][cardID]; ok {
			(*cards)[i].Quantity++
			return
		}
		index[section][cardID] = len(*cards)
		*cards = append(*cards, model.DeckCard{CardID: cardID, Quantity: 1})
	}

	total := 0
	for i, rawLine := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "!side"):
			section = model.SectionSide
			continue
		case strings.HasPrefix(line, "#"):
			lower := strings.ToLower(line)
			if strings.Contains(lower, "main") {
				section = model.SectionMain
			} else if strings.Contains(lower, "extra") {
				section = model.SectionExtra
			}
			// прочие #-строки — комментарии
			continue
		}
		cardID, err := strconv.Atoi(line)
		if err != nil || cardID < 1 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d skipped: not a card id %q", i+1, rawLine))
			continue
		}
		if section == "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d skipped: card id before any section marker", i+1))
			continue
		}
		appendCard(section, cardID)
		total++
	}

	res.ImportedCards = total
	if total == 0 {
		res.Errors = append(res.Errors, "no valid card lines in deck input")
		return nil, res
	}
	res.Success = true
	return d, res
}
