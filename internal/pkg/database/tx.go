package database

import "context"

// TxManager runs a function inside a storage transaction so multi-repo
// writes commit or roll back as one unit.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
