package repo

import (
	"context"
	"testing"
	"time"

	"BinderKeeper/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCollectionRepository_BinderUpsertAndScoping(t *testing.T) {
	db := newTestDB(t)
	r := NewCollectionRepository(db)
	ctx := context.Background()

	u1, err := NewUserRepository(db).CreateUser(ctx, &model.User{Login: "u1", Password: "h"})
	require.NoError(t, err)
	u2, err := NewUserRepository(db).CreateUser(ctx, &model.User{Login: "u2", Password: "h"})
	require.NoError(t, err)

	b := &model.Binder{
		ID:      "b-1",
		UserID:  u1.ID,
		Name:    "Trades",
		Cards:   []byte(`[{"card_id":1,"qty":2}]`),
		Created: time.Now().UTC(),
		Updated: time.Now().UTC(),
	}
	assert.NoError(t, r.UpsertBinder(ctx, b))

	// владелец видит запись
	got, err := r.GetBinder(ctx, u1.ID, "b-1")
	assert.NoError(t, err)
	assert.Equal(t, "Trades", got.Name)

	// чужая запись невидима
	_, err = r.GetBinder(ctx, u2.ID, "b-1")
	assert.Equal(t, gorm.ErrRecordNotFound, err)

	// upsert по тому же id обновляет поля
	b.Name = "Trades v2"
	b.Favorite = true
	assert.NoError(t, r.UpsertBinder(ctx, b))
	got, err = r.GetBinder(ctx, u1.ID, "b-1")
	assert.NoError(t, err)
	assert.Equal(t, "Trades v2", got.Name)
	assert.True(t, got.Favorite)

	// владелец определяется по id без фильтра пользователя
	owner, err := r.OwnerOfBinder(ctx, "b-1")
	assert.NoError(t, err)
	assert.Equal(t, u1.ID, owner)

	owner, err = r.OwnerOfBinder(ctx, "missing")
	assert.NoError(t, err)
	assert.Zero(t, owner)
}

func TestCollectionRepository_DeckUpsertAndOwner(t *testing.T) {
	db := newTestDB(t)
	r := NewCollectionRepository(db)
	ctx := context.Background()

	u, err := NewUserRepository(db).CreateUser(ctx, &model.User{Login: "john", Password: "h"})
	require.NoError(t, err)

	d := &model.Deck{
		ID:      "d-1",
		UserID:  u.ID,
		Name:    "Dragons",
		Main:    []byte(`[{"card_id":7,"qty":3}]`),
		Extra:   []byte(`[]`),
		Side:    []byte(`[]`),
		Created: time.Now().UTC(),
		Updated: time.Now().UTC(),
	}
	assert.NoError(t, r.UpsertDeck(ctx, d))

	got, err := r.GetDeck(ctx, u.ID, "d-1")
	assert.NoError(t, err)
	assert.Equal(t, "Dragons", got.Name)
	assert.JSONEq(t, `[{"card_id":7,"qty":3}]`, string(got.Main))

	owner, err := r.OwnerOfDeck(ctx, "d-1")
	assert.NoError(t, err)
	assert.Equal(t, u.ID, owner)
}
