package service

import (
	"fmt"
	"sort"
	"strings"

	"BinderKeeper/internal/cli/model"
)

// CardLookup отдаёт метаданные карты по id (обычно кэш карт).
type CardLookup interface {
	Card(id int) (*model.Card, bool)
}

// LegalityResult — итог проверки легальности колоды.
type LegalityResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// LegalityService проверяет колоды: структурные правила и банлист.
type LegalityService struct {
	cards CardLookup
}

// NewLegalityService создаёт валидатор легальности поверх справочника карт.
func NewLegalityService(cards CardLookup) *LegalityService {
	return &LegalityService{cards: cards}
}

// ValidateStructure — строгая структурная проверка:
// main в [40,60], extra/side ≤ 15, суммарно не более 3 копий одного id по всем секциям.
func (s *LegalityService) ValidateStructure(deck *model.Deck) LegalityResult {
	res := LegalityResult{Valid: true}

	mainTotal := model.SectionTotal(deck.MainDeck)
	if mainTotal < minMainDeckSize || mainTotal > maxMainDeckSize {
		res.Errors = append(res.Errors,
			fmt.Sprintf("main deck has %d cards, must be between %d and %d", mainTotal, minMainDeckSize, maxMainDeckSize))
	}
	if total := model.SectionTotal(deck.ExtraDeck); total > maxSideSectionSize {
		res.Errors = append(res.Errors,
			fmt.Sprintf("extra deck has %d cards, maximum is %d", total, maxSideSectionSize))
	}
	if total := model.SectionTotal(deck.SideDeck); total > maxSideSectionSize {
		res.Errors = append(res.Errors,
			fmt.Sprintf("side deck has %d cards, maximum is %d", total, maxSideSectionSize))
	}

	totals, _ := deck.AggregateQuantities()
	for _, id := range sortedCardIDs(totals) {
		if totals[id] > model.UnlimitedCap {
			res.Errors = append(res.Errors,
				fmt.Sprintf("card %d appears %d times across all sections, maximum is %d", id, totals[id], model.UnlimitedCap))
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// ValidateBanlist проверяет колоду по банлисту: агрегированное количество каждой
// карты по всем секциям не должно превышать лимит её уровня ограничения.
// Карта, отсутствующая в справочнике, даёт предупреждение, и проверка лимита
// для неё пропускается: её легальность определить нельзя.
func (s *LegalityService) ValidateBanlist(deck *model.Deck, banlist *model.BanList) LegalityResult {
	res := LegalityResult{Valid: true}
	totals, sections := deck.AggregateQuantities()

	for _, id := range sortedCardIDs(totals) {
		total := totals[id]
		cardName := fmt.Sprintf("card %d", id)
		if s.cards != nil {
			card, ok := s.cards.Card(id)
			if !ok {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("card %d is not in the card database, its legality could not be determined", id))
				continue
			}
			cardName = fmt.Sprintf("%q (%d)", card.Name, id)
		}

		limit := banlist.Cap(id)
		if limit == 0 {
			res.Errors = append(res.Errors,
				fmt.Sprintf("%s is forbidden in %q but appears %d time(s) in %s",
					cardName, banlist.Name, total, strings.Join(sections[id], ", ")))
			continue
		}
		if total > limit {
			res.Errors = append(res.Errors,
				fmt.Sprintf("%s has %d copies in %s, %s allows at most %d",
					cardName, total, strings.Join(sections[id], ", "), banlist.Name, limit))
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// ValidateComprehensive — полная проверка: структурная И банлист.
// Списки ошибок/предупреждений конкатенируются.
func (s *LegalityService) ValidateComprehensive(deck *model.Deck, banlist *model.BanList) LegalityResult {
	structural := s.ValidateStructure(deck)
	banned := s.ValidateBanlist(deck, banlist)
	return LegalityResult{
		Valid:    structural.Valid && banned.Valid,
		Errors:   append(structural.Errors, banned.Errors...),
		Warnings: append(structural.Warnings, banned.Warnings...),
	}
}

func sortedCardIDs(totals map[int]int) []int {
	ids := make([]int, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
