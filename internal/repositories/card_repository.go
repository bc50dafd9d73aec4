package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sapipay/internal/models/db_models"
)

type ICardRepository interface {
	Create(ctx context.Context, card *db_models.Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Card, error)
	// FindPendingBySession matches the bind-card webhook business keys:
	// the provider session id plus the owner's phone number.
	FindPendingBySession(ctx context.Context, sessionID, phone string) (*db_models.Card, error)
	Save(ctx context.Context, card *db_models.Card) error
}

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) ICardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) Create(ctx context.Context, card *db_models.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Card, error) {
	var card db_models.Card
	err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) FindPendingBySession(ctx context.Context, sessionID, phone string) (*db_models.Card, error) {
	var card db_models.Card
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = cards.user_id").
		Where("cards.multibank_session_id = ? AND users.phone_number = ?", sessionID, phone).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) Save(ctx context.Context, card *db_models.Card) error {
	return r.db.WithContext(ctx).Save(card).Error
}
