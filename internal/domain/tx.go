package domain

import "context"

// Transactor runs fn as one atomic unit. Repository calls made with the
// context passed to fn join the same transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
