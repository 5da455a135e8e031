// Package format реализует экспорт и импорт сущностей в файловые форматы:
// JSON, CSV, простой текст и построчный формат колоды (YDK).
package format

import "BinderKeeper/internal/cli/model"

// ImportResult — структурированный итог импорта: флаг успеха, количество
// импортированных карточных записей и раздельные списки ошибок/предупреждений.
// Построчные проблемы восстановимы (строка пропускается с предупреждением);
// ошибка всего импорта — нечитаемый файл или ноль валидных записей.
type ImportResult struct {
	Success       bool
	ImportedCards int
	Errors        []string
	Warnings      []string
}

// CardNamer отдаёт метаданные карты по id для подстановки названий в экспорт.
type CardNamer interface {
	Card(id int) (*model.Card, bool)
}
