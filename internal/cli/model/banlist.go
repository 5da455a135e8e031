package model

// Уровни ограничений банлиста и их лимиты копий.
const (
	TierForbidden   = "forbidden"
	TierLimited     = "limited"
	TierSemiLimited = "semiLimited"
	TierWhitelist   = "whitelist"
	TierUnlimited   = "unlimited"

	// UnlimitedCap — глобальный лимит копий карты, не входящей в банлист.
	UnlimitedCap = 3
)

// BanList — именованный набор ограничений: четыре непересекающихся множества id карт.
// Карта, отсутствующая во всех четырёх, считается неограниченной (лимит 3).
type BanList struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Ruleset     string `json:"ruleset"`
	Forbidden   []int  `json:"forbidden"`
	Limited     []int  `json:"limited"`
	SemiLimited []int  `json:"semiLimited"`
	Whitelist   []int  `json:"whitelist"`
}

// Tier возвращает уровень ограничения для карты.
func (b *BanList) Tier(cardID int) string {
	if containsID(b.Forbidden, cardID) {
		return TierForbidden
	}
	if containsID(b.Limited, cardID) {
		return TierLimited
	}
	if containsID(b.SemiLimited, cardID) {
		return TierSemiLimited
	}
	if containsID(b.Whitelist, cardID) {
		return TierWhitelist
	}
	return TierUnlimited
}

// Cap возвращает максимально допустимое суммарное количество копий карты.
func (b *BanList) Cap(cardID int) int {
	switch b.Tier(cardID) {
	case TierForbidden:
		return 0
	case TierLimited:
		return 1
	case TierSemiLimited:
		return 2
	default:
		// whitelist — явный маркер "без ограничений", лимит общий
		return UnlimitedCap
	}
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
