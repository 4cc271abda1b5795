package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/eslsoft/phrasenet/internal/entity"
	"github.com/eslsoft/phrasenet/internal/repository"
)

type txKey struct{}

type txManager struct {
	db *gorm.DB
}

// NewTxManager wraps the gorm handle in a repository.TxManager. The
// transaction travels in the context so every repository call inside
// fn resolves the same one.
func NewTxManager(db *gorm.DB) repository.TxManager {
	return &txManager{db: db}
}

func (m *txManager) Within(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		// Already inside a transaction; nested Within joins it.
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// conn resolves the database handle for a call: the in-flight
// transaction when one is carried by the context, the base handle
// otherwise.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// translateDBError maps driver errors onto the entity sentinels the
// usecases match on. Duplicate-key mapping relies on the gorm error
// translation enabled at connection time.
func translateDBError(err error, onDuplicate error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return onDuplicate
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.ErrNotFound
	}
	return err
}
