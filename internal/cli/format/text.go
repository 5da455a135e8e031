package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"BinderKeeper/internal/cli/model"

	"github.com/google/uuid"
)

// textLineRe распознаёт строки вида "<quantity>[x] [Card ID ]<id>":
// "3x 46986414", "3 Card ID 46986414", "1 46986414" (регистр не важен).
var textLineRe = regexp.MustCompile(`(?i)^(\d+)\s*x?\s+(?:card\s*id\s+)?(\d+)\s*$`)

// ExportBinderText пишет биндер в человекочитаемый список.
// Строки карт остаются машинно-разборчивыми для обратного импорта.
func ExportBinderText(b *model.Binder, cards CardNamer) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", b.Name)
	if b.Description != "" {
		fmt.Fprintf(&sb, "# %s\n", b.Description)
	}
	fmt.Fprintf(&sb, "# %d cards total\n\n", b.TotalCards())
	for _, c := range b.Cards {
		line := fmt.Sprintf("%dx Card ID %d", c.Quantity, c.CardID)
		if cards != nil {
			if card, ok := cards.Card(c.CardID); ok {
				line += " // " + card.Name
			}
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// ImportBinderText разбирает текстовый список в биндер со свежим id.
// Пустые строки и комментарии (# или //) игнорируются; нераспознанная
// строка даёт предупреждение и пропускается.
func ImportBinderText(data []byte, name string) (*model.Binder, ImportResult) {
	var res ImportResult
	b := &model.Binder{ID: uuid.NewString(), Name: name}

	for i, rawLine := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		// комментарий в хвосте строки отбрасывается
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		m := textLineRe.FindStringSubmatch(line)
		if m == nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d skipped: unrecognized format %q", i+1, rawLine))
			continue
		}
		quantity, _ := strconv.Atoi(m[1])
		cardID, _ := strconv.Atoi(m[2])
		if quantity < 1 || cardID < 1 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d skipped: non-positive quantity or id", i+1))
			continue
		}
		b.Cards = append(b.Cards, model.BinderCard{CardID: cardID, Quantity: quantity})
	}

	res.ImportedCards = len(b.Cards)
	if res.ImportedCards == 0 {
		res.Errors = append(res.Errors, "no valid card lines in text input")
		return nil, res
	}
	res.Success = true
	return b, res
}
