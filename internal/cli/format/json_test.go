package format

import (
	"encoding/json"
	"testing"

	"BinderKeeper/internal/cli/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportBinderJSON_StripMetadata(t *testing.T) {
	b := &model.Binder{
		ID:          "b1",
		Name:        "Trades",
		Description: "up for trade",
		Tags:        []string{"t"},
		Cards: []model.BinderCard{
			{CardID: 1, Quantity: 2, SetCode: "LOB-001", Notes: "bent", Tags: []string{"x"}},
		},
	}

	full, err := ExportBinderJSON(b, false)
	require.NoError(t, err)
	assert.Contains(t, string(full), "up for trade")
	assert.Contains(t, string(full), "LOB-001")

	stripped, err := ExportBinderJSON(b, true)
	require.NoError(t, err)
	assert.NotContains(t, string(stripped), "up for trade")
	assert.NotContains(t, string(stripped), "LOB-001")
	assert.NotContains(t, string(stripped), "bent")

	// ядро cardId/quantity сохранено
	var out model.Binder
	require.NoError(t, json.Unmarshal(stripped, &out))
	require.Len(t, out.Cards, 1)
	assert.Equal(t, model.BinderCard{CardID: 1, Quantity: 2}, out.Cards[0])

	// исходный биндер не изменён
	assert.Equal(t, "up for trade", b.Description)
	assert.Equal(t, "LOB-001", b.Cards[0].SetCode)
}

func TestImportBinderJSON(t *testing.T) {
	t.Run("fresh id is always assigned", func(t *testing.T) {
		b, res := ImportBinderJSON([]byte(`{"id":"old","name":"n","cards":[{"cardId":1,"quantity":1}]}`))
		require.True(t, res.Success)
		assert.NotEqual(t, "old", b.ID)
		assert.NotEmpty(t, b.ID)
	})

	t.Run("invalid records are skipped with warnings", func(t *testing.T) {
		b, res := ImportBinderJSON([]byte(`{"name":"n","cards":[
			{"cardId":1,"quantity":1},
			{"cardId":0,"quantity":1},
			{"cardId":2,"quantity":-1}
		]}`))
		require.True(t, res.Success)
		assert.Equal(t, 1, res.ImportedCards)
		assert.Len(t, res.Warnings, 2)
		assert.Len(t, b.Cards, 1)
	})

	t.Run("unparseable input fails", func(t *testing.T) {
		_, res := ImportBinderJSON([]byte(`{broken`))
		assert.False(t, res.Success)
	})

	t.Run("zero valid records fails", func(t *testing.T) {
		_, res := ImportBinderJSON([]byte(`{"name":"n","cards":[]}`))
		assert.False(t, res.Success)
	})
}

func TestImportDeckJSON(t *testing.T) {
	t.Run("sections cleaned independently", func(t *testing.T) {
		d, res := ImportDeckJSON([]byte(`{
			"name":"Dragons","format":"TCG",
			"mainDeck":[{"cardId":1,"quantity":3},{"cardId":0,"quantity":1}],
			"extraDeck":[{"cardId":2,"quantity":1}],
			"sideDeck":[]
		}`))
		require.True(t, res.Success)
		assert.Equal(t, 2, res.ImportedCards)
		assert.Len(t, res.Warnings, 1)
		assert.Len(t, d.MainDeck, 1)
		assert.Len(t, d.ExtraDeck, 1)
		assert.Empty(t, d.SideDeck)
		assert.Equal(t, "TCG", d.Format)
	})

	t.Run("roundtrip with export", func(t *testing.T) {
		src := &model.Deck{
			ID:       "d1",
			Name:     "r",
			MainDeck: []model.DeckCard{{CardID: 1, Quantity: 3}},
		}
		raw, err := ExportDeckJSON(src, false)
		require.NoError(t, err)
		got, res := ImportDeckJSON(raw)
		require.True(t, res.Success)
		assert.NotEqual(t, "d1", got.ID)
		assert.Equal(t, src.MainDeck, got.MainDeck)
	})
}
