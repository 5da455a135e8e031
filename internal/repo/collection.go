package repo

import (
	"context"

	"BinderKeeper/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CollectionRepository — доступ к биндерам и колодам пользователя.
// Все выборки ограничены userID; чужие сущности невидимы.
type CollectionRepository interface {
	// GetBinder возвращает gorm.ErrRecordNotFound, если биндера нет у пользователя.
	GetBinder(ctx context.Context, userID int64, id string) (*model.Binder, error)
	UpsertBinder(ctx context.Context, b *model.Binder) error
	GetDeck(ctx context.Context, userID int64, id string) (*model.Deck, error)
	UpsertDeck(ctx context.Context, d *model.Deck) error
	// OwnerOfBinder/OwnerOfDeck возвращают (0, nil), если запись отсутствует.
	OwnerOfBinder(ctx context.Context, id string) (int64, error)
	OwnerOfDeck(ctx context.Context, id string) (int64, error)
}

type collectionRepo struct {
	db *gorm.DB
}

// NewCollectionRepository создаёт реализацию репозитория коллекций.
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepo{db: db}
}

func (r *collectionRepo) GetBinder(ctx context.Context, userID int64, id string) (*model.Binder, error) {
	var b model.Binder
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *collectionRepo) UpsertBinder(ctx context.Context, b *model.Binder) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(b).Error
}

func (r *collectionRepo) GetDeck(ctx context.Context, userID int64, id string) (*model.Deck, error) {
	var d model.Deck
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *collectionRepo) UpsertDeck(ctx context.Context, d *model.Deck) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(d).Error
}

func (r *collectionRepo) OwnerOfBinder(ctx context.Context, id string) (int64, error) {
	var b model.Binder
	err := r.db.WithContext(ctx).Select("user_id").Where("id = ?", id).First(&b).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return b.UserID, nil
}

func (r *collectionRepo) OwnerOfDeck(ctx context.Context, id string) (int64, error) {
	var d model.Deck
	err := r.db.WithContext(ctx).Select("user_id").Where("id = ?", id).First(&d).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return d.UserID, nil
}
