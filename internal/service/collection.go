package service

import (
	"context"
	"errors"

	"BinderKeeper/internal/model"
	"BinderKeeper/internal/repo"

	"gorm.io/gorm"
)

// ErrNotFound — сущность отсутствует у пользователя.
var ErrNotFound = errors.New("not found")

// ErrForbidden — id уже занят сущностью другого пользователя.
var ErrForbidden = errors.New("entity belongs to another user")

// CollectionService — серверная логика хранения биндеров и колод.
// Сервер хранит копии как есть: клиент назначает id и метки времени.
type CollectionService struct {
	repo repo.CollectionRepository
}

func NewCollectionService(r repo.CollectionRepository) *CollectionService {
	return &CollectionService{repo: r}
}

// GetBinder возвращает биндер пользователя или ErrNotFound.
func (s *CollectionService) GetBinder(ctx context.Context, userID int64, id string) (*model.Binder, error) {
	b, err := s.repo.GetBinder(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// SaveBinder создаёт или обновляет биндер пользователя.
// created=true, если раньше копии на сервере не было.
func (s *CollectionService) SaveBinder(ctx context.Context, userID int64, b *model.Binder) (bool, error) {
	owner, err := s.repo.OwnerOfBinder(ctx, b.ID)
	if err != nil {
		return false, err
	}
	if owner != 0 && owner != userID {
		return false, ErrForbidden
	}
	b.UserID = userID
	if err := s.repo.UpsertBinder(ctx, b); err != nil {
		return false, err
	}
	return owner == 0, nil
}

// GetDeck возвращает колоду пользователя или ErrNotFound.
func (s *CollectionService) GetDeck(ctx context.Context, userID int64, id string) (*model.Deck, error) {
	d, err := s.repo.GetDeck(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// SaveDeck создаёт или обновляет колоду пользователя.
func (s *CollectionService) SaveDeck(ctx context.Context, userID int64, d *model.Deck) (bool, error) {
	owner, err := s.repo.OwnerOfDeck(ctx, d.ID)
	if err != nil {
		return false, err
	}
	if owner != 0 && owner != userID {
		return false, ErrForbidden
	}
	d.UserID = userID
	if err := s.repo.UpsertDeck(ctx, d); err != nil {
		return false, err
	}
	return owner == 0, nil
}
