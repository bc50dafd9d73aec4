package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sapipay/internal/models/db_models"
	"sapipay/internal/repositories"
)

// CardService starts provider card-binding sessions. The card row stays
// pending until the bind-card webhook fills in the details and activates it.
type CardService interface {
	StartBindSession(ctx context.Context, userID uuid.UUID) (*db_models.Card, error)
}

type cardService struct {
	cards repositories.ICardRepository
}

func NewCardService(db *gorm.DB) CardService {
	return &cardService{cards: repositories.NewCardRepository(db)}
}

func (c *cardService) StartBindSession(ctx context.Context, userID uuid.UUID) (*db_models.Card, error) {
	card := &db_models.Card{
		UserID:             userID,
		MultibankSessionID: uuid.New().String(),
		IsActive:           false,
	}
	if err := c.cards.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}
