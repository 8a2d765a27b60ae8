package repositories

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// dbFrom returns the transaction carried in ctx when one is open, otherwise
// the base connection scoped to ctx. Repositories stay oblivious to whether
// they run inside a transaction.
func dbFrom(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return base.WithContext(ctx)
}

// TxManager runs a function inside a single database transaction. The
// derived context carries the transaction down into the repositories.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
