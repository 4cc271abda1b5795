package repository

import "context"

// TxManager runs a function inside a storage transaction. The context
// passed to fn carries the transaction handle; repository
// implementations resolve it before touching the database, so every
// call made through fn shares one transaction.
type TxManager interface {
	Within(ctx context.Context, fn func(ctx context.Context) error) error
}

// CardLocker serializes in-process access to a single card. The review
// flow escalates to it after repeated optimistic commit conflicts.
type CardLocker interface {
	// Lock blocks until the card lock is held and returns the release func.
	Lock(cardID int64) (unlock func())
}
