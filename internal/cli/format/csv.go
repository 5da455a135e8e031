package format

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"BinderKeeper/internal/cli/model"

	"github.com/google/uuid"
)

// CSVExportOptions управляет дополнительными колонками экспорта биндера.
type CSVExportOptions struct {
	// IncludeDetails добавляет колонки с метаданными карты из справочника
	// (название, тип, атрибут).
	IncludeDetails bool
	IncludeSet     bool
	IncludeTags    bool
	IncludeNotes   bool
}

// ExportBinderCSV пишет биндер в CSV: одна строка на карточную запись.
// Базовые колонки Card ID/Quantity присутствуют всегда, остальные — по опциям.
func ExportBinderCSV(b *model.Binder, opts CSVExportOptions, cards CardNamer) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Card ID", "Quantity"}
	if opts.IncludeDetails {
		header = append(header, "Card Name", "Type", "Attribute")
	}
	if opts.IncludeSet {
		header = append(header, "Set Code", "Rarity", "Condition", "Edition")
	}
	if opts.IncludeTags {
		header = append(header, "Tags")
	}
	if opts.IncludeNotes {
		header = append(header, "Notes")
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, c := range b.Cards {
		row := []string{strconv.Itoa(c.CardID), strconv.Itoa(c.Quantity)}
		if opts.IncludeDetails {
			name, typ, attr := c.CardName, "", ""
			if cards != nil {
				if card, ok := cards.Card(c.CardID); ok {
					name, typ, attr = card.Name, card.Type, card.Attribute
				}
			}
			row = append(row, name, typ, attr)
		}
		if opts.IncludeSet {
			row = append(row, c.SetCode, c.Rarity, c.Condition, c.Edition)
		}
		if opts.IncludeTags {
			row = append(row, strings.Join(c.Tags, ";"))
		}
		if opts.IncludeNotes {
			row = append(row, c.Notes)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// csvColumns — отображение смысловых колонок на индексы в конкретном файле.
type csvColumns struct {
	cardID    int
	quantity  int
	setCode   int
	rarity    int
	condition int
	edition   int
	tags      int
	notes     int
}

func newCSVColumns() csvColumns {
	return csvColumns{cardID: -1, quantity: -1, setCode: -1, rarity: -1, condition: -1, edition: -1, tags: -1, notes: -1}
}

// detectDialect распознаёт диалект заголовка:
// альтернативный (cardid/cardq/... — точное совпадение без учёта регистра)
// либо legacy ("Card ID"/"Quantity"/... — вхождение подстроки без учёта регистра).
func detectDialect(header []string) (csvColumns, bool) {
	cols := newCSVColumns()

	// альтернативный диалект: точное совпадение имён
	alt := false
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "cardid":
			cols.cardID = i
			alt = true
		case "cardq":
			cols.quantity = i
		case "cardrarity":
			cols.rarity = i
		case "cardcondition":
			cols.condition = i
		case "card_edition":
			cols.edition = i
		case "cardcode":
			cols.setCode = i
		}
	}
	if alt {
		return cols, true
	}

	// legacy-диалект: вхождение подстроки
	cols = newCSVColumns()
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "card id"):
			cols.cardID = i
		case strings.Contains(l, "quantity"):
			cols.quantity = i
		case strings.Contains(l, "rarity"):
			cols.rarity = i
		case strings.Contains(l, "condition"):
			cols.condition = i
		case strings.Contains(l, "edition"):
			cols.edition = i
		case strings.Contains(l, "set"):
			cols.setCode = i
		case strings.Contains(l, "tags"):
			cols.tags = i
		case strings.Contains(l, "notes"):
			cols.notes = i
		}
	}
	return cols, cols.cardID >= 0
}

func (c csvColumns) get(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ImportBinderCSV разбирает CSV в биндер с указанным именем и свежим id.
// Кавычки, экранированные кавычки и переводы строк внутри полей
// обрабатываются стандартным CSV-ридером. Неразборчивая строка даёт
// предупреждение и пропускается; ноль валидных строк — ошибка импорта.
func ImportBinderCSV(data []byte, name string) (*model.Binder, ImportResult) {
	var res ImportResult

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("unparseable CSV: %v", err))
		return nil, res
	}
	if len(records) < 2 {
		res.Errors = append(res.Errors, "CSV has no data rows")
		return nil, res
	}

	cols, ok := detectDialect(records[0])
	if !ok {
		res.Errors = append(res.Errors, "unsupported CSV format: no recognizable card id column")
		return nil, res
	}

	b := &model.Binder{ID: uuid.NewString(), Name: name}
	for i, row := range records[1:] {
		rowNum := i + 2 // нумерация строк файла с учётом заголовка

		idStr := cols.get(row, cols.cardID)
		cardID, err := strconv.Atoi(idStr)
		if err != nil || cardID < 1 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("row %d skipped: invalid card id %q", rowNum, idStr))
			continue
		}

		quantity := 1
		if qStr := cols.get(row, cols.quantity); qStr != "" {
			q, err := strconv.Atoi(qStr)
			if err != nil || q < 1 {
				res.Warnings = append(res.Warnings, fmt.Sprintf("row %d skipped: invalid quantity %q", rowNum, qStr))
				continue
			}
			quantity = q
		}

		card := model.BinderCard{
			CardID:    cardID,
			Quantity:  quantity,
			SetCode:   cols.get(row, cols.setCode),
			Rarity:    cols.get(row, cols.rarity),
			Condition: cols.get(row, cols.condition),
			Edition:   cols.get(row, cols.edition),
			Notes:     cols.get(row, cols.notes),
		}
		if tags := cols.get(row, cols.tags); tags != "" {
			card.Tags = strings.Split(tags, ";")
		}
		b.Cards = append(b.Cards, card)
	}

	res.ImportedCards = len(b.Cards)
	if res.ImportedCards == 0 {
		res.Errors = append(res.Errors, "no valid card rows in CSV input")
		return nil, res
	}
	res.Success = true
	return b, res
}
