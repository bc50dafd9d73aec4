package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sapipay/internal/models/db_models"
	"sapipay/pkg/utils"
)

type ITransactionRepository interface {
	// WithTx rebinds the repository to an open gorm transaction.
	WithTx(tx *gorm.DB) ITransactionRepository
	Create(ctx context.Context, txn *db_models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Transaction, error)
	// TransitionStatus applies the ledger state machine with a guarded
	// update: it succeeds only when the current status is one of from,
	// otherwise it reports ErrTxnStateConflict. Concurrent confirm and
	// webhook paths race on this guard, never on a read-then-write.
	TransitionStatus(ctx context.Context, id uuid.UUID, to db_models.TransactionStatus, from ...db_models.TransactionStatus) error
	SetProviderTxnID(ctx context.Context, id uuid.UUID, providerTxnID string) error
	// StoreCallbackPayload is allowed regardless of status; the raw webhook
	// body is an audit field, not part of the state machine.
	StoreCallbackPayload(ctx context.Context, id uuid.UUID, payload []byte) error
}

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) ITransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) WithTx(tx *gorm.DB) ITransactionRepository {
	return &TransactionRepository{db: tx}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *db_models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Transaction, error) {
	var txn db_models.Transaction
	err := r.db.WithContext(ctx).First(&txn, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

func (r *TransactionRepository) TransitionStatus(ctx context.Context, id uuid.UUID, to db_models.TransactionStatus, from ...db_models.TransactionStatus) error {
	res := r.db.WithContext(ctx).
		Model(&db_models.Transaction{}).
		Where("id = ? AND status IN ?", id, statusList(from)).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrTxnStateConflict
	}
	return nil
}

func (r *TransactionRepository) SetProviderTxnID(ctx context.Context, id uuid.UUID, providerTxnID string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Transaction{}).
		Where("id = ?", id).
		Update("provider_txn_id", providerTxnID).Error
}

func (r *TransactionRepository) StoreCallbackPayload(ctx context.Context, id uuid.UUID, payload []byte) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Transaction{}).
		Where("id = ?", id).
		Update("callback_payload", payload).Error
}

func statusList(from []db_models.TransactionStatus) []string {
	out := make([]string, len(from))
	for i, s := range from {
		out[i] = string(s)
	}
	return out
}
