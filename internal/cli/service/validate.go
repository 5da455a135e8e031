package service

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"BinderKeeper/internal/cli/repo"
)

// FieldKind — ожидаемый примитивный тип поля в декларативной схеме.
type FieldKind int

const (
	KindString FieldKind = iota
	KindNumber
	KindBool
	KindArray
)

// FieldSpec описывает одно поле схемы: имя, обязательность, ожидаемый тип.
type FieldSpec struct {
	Name     string
	Required bool
	Kind     FieldKind
}

// EntitySchema — декларативная схема сущности: поля верхнего уровня,
// поля карточной записи и имена массивов карт.
type EntitySchema struct {
	EntityType string
	Fields     []FieldSpec
	CardFields []FieldSpec
	CardArrays []string
}

// BinderSchema — схема биндера.
var BinderSchema = EntitySchema{
	EntityType: "binder",
	Fields: []FieldSpec{
		{Name: "id", Required: true, Kind: KindString},
		{Name: "name", Required: true, Kind: KindString},
		{Name: "description", Kind: KindString},
		{Name: "tags", Kind: KindArray},
		{Name: "isFavorite", Kind: KindBool},
		{Name: "createdAt", Required: true, Kind: KindNumber},
		{Name: "modifiedAt", Required: true, Kind: KindNumber},
		{Name: "cards", Required: true, Kind: KindArray},
	},
	CardFields: []FieldSpec{
		{Name: "cardId", Required: true, Kind: KindNumber},
		{Name: "quantity", Required: true, Kind: KindNumber},
		{Name: "setCode", Kind: KindString},
		{Name: "rarity", Kind: KindString},
		{Name: "condition", Kind: KindString},
		{Name: "edition", Kind: KindString},
		{Name: "notes", Kind: KindString},
		{Name: "tags", Kind: KindArray},
	},
	CardArrays: []string{"cards"},
}

// DeckSchema — схема колоды.
var DeckSchema = EntitySchema{
	EntityType: "deck",
	Fields: []FieldSpec{
		{Name: "id", Required: true, Kind: KindString},
		{Name: "name", Required: true, Kind: KindString},
		{Name: "description", Kind: KindString},
		{Name: "format", Kind: KindString},
		{Name: "tags", Kind: KindArray},
		{Name: "notes", Kind: KindString},
		{Name: "createdAt", Required: true, Kind: KindNumber},
		{Name: "modifiedAt", Required: true, Kind: KindNumber},
		{Name: "mainDeck", Required: true, Kind: KindArray},
		{Name: "extraDeck", Required: true, Kind: KindArray},
		{Name: "sideDeck", Required: true, Kind: KindArray},
	},
	CardFields: []FieldSpec{
		{Name: "cardId", Required: true, Kind: KindNumber},
		{Name: "quantity", Required: true, Kind: KindNumber},
	},
	CardArrays: []string{"mainDeck", "extraDeck", "sideDeck"},
}

// Пороговые значения советующих проверок.
const (
	maxBinderCopies    = 99
	maxDeckCopies      = 3
	minMainDeckSize    = 40
	maxMainDeckSize    = 60
	maxSideSectionSize = 15
)

// ValidationResult — непересекающиеся списки блокирующих ошибок и предупреждений.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// Valid — сущность пригодна, если нет блокирующих ошибок.
func (r *ValidationResult) Valid() bool { return len(r.Errors) == 0 }

func (r *ValidationResult) errf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidatorService выполняет структурную проверку и восстановление сущностей хранилища.
type ValidatorService struct {
	store repo.Store
}

// NewValidatorService создаёт валидатор поверх хранилища документов.
func NewValidatorService(store repo.Store) *ValidatorService {
	return &ValidatorService{store: store}
}

func kindMatches(v any, kind FieldKind) bool {
	switch kind {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindNumber:
		_, ok := v.(float64)
		return ok
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindArray:
		_, ok := v.([]any)
		return ok
	}
	return false
}

// isPositiveInt проверяет, что значение — целое число ≥ 1 (JSON-числа приходят как float64).
func isPositiveInt(v any) bool {
	f, ok := v.(float64)
	if !ok {
		return false
	}
	return f >= 1 && f == math.Trunc(f) && !math.IsInf(f, 0)
}

// Validate проверяет сущность по схеме и возвращает ошибки и предупреждения.
func (s *ValidatorService) Validate(entity map[string]any, schema EntitySchema) ValidationResult {
	var res ValidationResult

	for _, f := range schema.Fields {
		v, ok := entity[f.Name]
		if !ok || v == nil {
			if f.Required {
				res.errf("%s: missing required field %q", schema.EntityType, f.Name)
			}
			continue
		}
		if !kindMatches(v, f.Kind) {
			switch f.Name {
			case "id", "name":
				res.errf("%s: field %q has wrong type", schema.EntityType, f.Name)
			case "createdAt", "modifiedAt":
				res.errf("%s: invalid timestamp in %q", schema.EntityType, f.Name)
			default:
				res.warnf("%s: field %q has unexpected type", schema.EntityType, f.Name)
			}
			continue
		}
		// метка времени обязана быть положительной
		if (f.Name == "createdAt" || f.Name == "modifiedAt") && !isPositiveInt(v) {
			res.errf("%s: invalid timestamp in %q", schema.EntityType, f.Name)
		}
	}

	for _, arrName := range schema.CardArrays {
		arr, ok := entity[arrName].([]any)
		if !ok {
			continue
		}
		sectionTotal := 0
		for i, raw := range arr {
			rec, ok := raw.(map[string]any)
			if !ok {
				res.errf("%s: %s[%d] is not an object", schema.EntityType, arrName, i)
				continue
			}
			for _, cf := range schema.CardFields {
				v, present := rec[cf.Name]
				if !present || v == nil {
					if cf.Required {
						res.errf("%s: %s[%d] missing required field %q", schema.EntityType, arrName, i, cf.Name)
					}
					continue
				}
				if cf.Name == "cardId" || cf.Name == "quantity" {
					if !isPositiveInt(v) {
						res.errf("%s: %s[%d] field %q must be a positive integer", schema.EntityType, arrName, i, cf.Name)
					}
					continue
				}
				if !kindMatches(v, cf.Kind) {
					res.warnf("%s: %s[%d] field %q has unexpected type", schema.EntityType, arrName, i, cf.Name)
				}
			}
			if q, ok := rec["quantity"].(float64); ok && isPositiveInt(rec["quantity"]) {
				sectionTotal += int(q)
				if schema.EntityType == "binder" && int(q) > maxBinderCopies {
					res.warnf("binder: %s[%d] quantity %d exceeds %d", arrName, i, int(q), maxBinderCopies)
				}
				if schema.EntityType == "deck" && int(q) > maxDeckCopies {
					res.warnf("deck: %s[%d] quantity %d exceeds %d", arrName, i, int(q), maxDeckCopies)
				}
			}
		}
		if schema.EntityType == "deck" {
			switch arrName {
			case "mainDeck":
				if sectionTotal < minMainDeckSize || sectionTotal > maxMainDeckSize {
					res.warnf("deck: main deck size %d outside [%d,%d]", sectionTotal, minMainDeckSize, maxMainDeckSize)
				}
			case "extraDeck", "sideDeck":
				if sectionTotal > maxSideSectionSize {
					res.warnf("deck: %s size %d exceeds %d", arrName, sectionTotal, maxSideSectionSize)
				}
			}
		}
	}
	return res
}

// RepairResult — итог восстановительного прохода по всему хранилищу.
type RepairResult struct {
	Success         bool
	RepairedBinders int
	RepairedDecks   int
	Issues          []string
}

// RepairData — полный проход по хранилищу с наилучшим возможным восстановлением:
// заполняет отсутствующие метки времени и секции, выбрасывает карточные записи
// с некорректными id/quantity. Сущности целиком никогда не удаляются.
// Сохраняются только фактически изменённые документы.
func (s *ValidatorService) RepairData() RepairResult {
	res := RepairResult{Success: true}
	docs := map[string][]byte{}

	binders, changed, count, issues, err := s.repairDoc(repo.DocBinders, BinderSchema)
	if err != nil {
		res.Success = false
		res.Issues = append(res.Issues, fmt.Sprintf("binders: %v", err))
	} else {
		res.RepairedBinders = count
		res.Issues = append(res.Issues, issues...)
		if changed {
			docs[repo.DocBinders] = binders
		}
	}

	decks, changed, count, issues, err := s.repairDoc(repo.DocDecks, DeckSchema)
	if err != nil {
		res.Success = false
		res.Issues = append(res.Issues, fmt.Sprintf("decks: %v", err))
	} else {
		res.RepairedDecks = count
		res.Issues = append(res.Issues, issues...)
		if changed {
			docs[repo.DocDecks] = decks
		}
	}

	if len(docs) > 0 {
		if err := s.store.WriteDocs(docs); err != nil {
			res.Success = false
			res.Issues = append(res.Issues, fmt.Sprintf("persist repairs: %v", err))
		}
	}
	return res
}

// repairDoc чинит один документ-список. Возвращает (новый JSON, changed,
// число исправленных сущностей, журнал, ошибка).
func (s *ValidatorService) repairDoc(key string, schema EntitySchema) ([]byte, bool, int, []string, error) {
	raw, err := s.store.ReadDoc(key)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, false, 0, nil, nil
		}
		return nil, false, 0, nil, err
	}
	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false, 0, nil, fmt.Errorf("corrupted document %q: %w", key, err)
	}

	var issues []string
	repaired := 0
	now := float64(time.Now().Unix())

	for _, entity := range list {
		entityChanged := false
		name, _ := entity["name"].(string)
		if name == "" {
			name = "<unnamed>"
		}

		for _, tsField := range []string{"createdAt", "modifiedAt"} {
			if v, ok := entity[tsField]; !ok || v == nil || !isPositiveInt(v) {
				entity[tsField] = now
				entityChanged = true
				issues = append(issues, fmt.Sprintf("%s %q: filled missing %s", schema.EntityType, name, tsField))
			}
		}

		for _, arrName := range schema.CardArrays {
			v, ok := entity[arrName]
			if !ok || v == nil {
				entity[arrName] = []any{}
				entityChanged = true
				issues = append(issues, fmt.Sprintf("%s %q: filled missing section %s", schema.EntityType, name, arrName))
				continue
			}
			arr, ok := v.([]any)
			if !ok {
				entity[arrName] = []any{}
				entityChanged = true
				issues = append(issues, fmt.Sprintf("%s %q: reset malformed section %s", schema.EntityType, name, arrName))
				continue
			}
			kept := make([]any, 0, len(arr))
			for i, rawRec := range arr {
				rec, ok := rawRec.(map[string]any)
				if !ok || !isPositiveInt(rec["cardId"]) || !isPositiveInt(rec["quantity"]) {
					entityChanged = true
					issues = append(issues, fmt.Sprintf("%s %q: dropped invalid card record %s[%d]", schema.EntityType, name, arrName, i))
					continue
				}
				kept = append(kept, rec)
			}
			if len(kept) != len(arr) {
				entity[arrName] = kept
			}
		}

		if entityChanged {
			repaired++
		}
	}

	if repaired == 0 {
		return raw, false, 0, issues, nil
	}
	out, err := json.Marshal(list)
	if err != nil {
		return nil, false, 0, issues, fmt.Errorf("encode repaired %q: %w", key, err)
	}
	return out, true, repaired, issues, nil
}
