package service

import (
	"context"
	"testing"

	"BinderKeeper/internal/model"
	"BinderKeeper/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// мок для repo.CollectionRepository
type mockCollectionRepo struct{ mock.Mock }

func (m *mockCollectionRepo) GetBinder(ctx context.Context, userID int64, id string) (*model.Binder, error) {
	args := m.Called(ctx, userID, id)
	if v, ok := args.Get(0).(*model.Binder); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCollectionRepo) UpsertBinder(ctx context.Context, b *model.Binder) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockCollectionRepo) GetDeck(ctx context.Context, userID int64, id string) (*model.Deck, error) {
	args := m.Called(ctx, userID, id)
	if v, ok := args.Get(0).(*model.Deck); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCollectionRepo) UpsertDeck(ctx context.Context, d *model.Deck) error {
	return m.Called(ctx, d).Error(0)
}
func (m *mockCollectionRepo) OwnerOfBinder(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockCollectionRepo) OwnerOfDeck(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.CollectionRepository = (*mockCollectionRepo)(nil)

func TestCollectionService_SaveBinder(t *testing.T) {
	ctx := context.Background()
	m := new(mockCollectionRepo)
	svc := NewCollectionService(m)

	t.Run("new binder is created for caller", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("OwnerOfBinder", mock.Anything, "b1").Return(int64(0), nil).Once()
		m.On("UpsertBinder", mock.Anything, mock.MatchedBy(func(b *model.Binder) bool {
			return b.UserID == 5
		})).Return(nil).Once()

		created, err := svc.SaveBinder(ctx, 5, &model.Binder{ID: "b1", Name: "n"})
		assert.NoError(t, err)
		assert.True(t, created)
		m.AssertExpectations(t)
	})

	t.Run("own binder is updated", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("OwnerOfBinder", mock.Anything, "b1").Return(int64(5), nil).Once()
		m.On("UpsertBinder", mock.Anything, mock.Anything).Return(nil).Once()

		created, err := svc.SaveBinder(ctx, 5, &model.Binder{ID: "b1", Name: "n"})
		assert.NoError(t, err)
		assert.False(t, created)
		m.AssertExpectations(t)
	})

	t.Run("foreign binder is forbidden", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("OwnerOfBinder", mock.Anything, "b1").Return(int64(9), nil).Once()

		_, err := svc.SaveBinder(ctx, 5, &model.Binder{ID: "b1", Name: "n"})
		assert.ErrorIs(t, err, ErrForbidden)
		m.AssertExpectations(t)
	})
}

func TestCollectionService_GetDeck(t *testing.T) {
	ctx := context.Background()
	m := new(mockCollectionRepo)
	svc := NewCollectionService(m)

	t.Run("missing maps to ErrNotFound", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetDeck", mock.Anything, int64(5), "d1").Return((*model.Deck)(nil), gorm.ErrRecordNotFound).Once()

		_, err := svc.GetDeck(ctx, 5, "d1")
		assert.ErrorIs(t, err, ErrNotFound)
		m.AssertExpectations(t)
	})

	t.Run("found", func(t *testing.T) {
		m.ExpectedCalls = nil
		m.On("GetDeck", mock.Anything, int64(5), "d1").Return(&model.Deck{ID: "d1", Name: "Dragons"}, nil).Once()

		d, err := svc.GetDeck(ctx, 5, "d1")
		assert.NoError(t, err)
		assert.Equal(t, "Dragons", d.Name)
		m.AssertExpectations(t)
	})
}
