package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-booking-service/pkg/dbmetrics"
)

type fakeTx struct {
	commitErr error
	rollbacks *int
}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error { return f.commitErr }

func (f *fakeTx) Rollback() error {
	if f.rollbacks != nil {
		*f.rollbacks++
	}
	return nil
}

type fakeBeginner struct {
	begins    int
	commitErr func(attempt int) error
	rollbacks int
}

func (f *fakeBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	f.begins++
	tx := &fakeTx{rollbacks: &f.rollbacks}
	if f.commitErr != nil {
		tx.commitErr = f.commitErr(f.begins)
	}
	return tx, nil
}

func serializationErr() error {
	return &pq.Error{Code: "40001"}
}

func TestDoSerializableRetries(t *testing.T) {
	t.Run("wrapped serialization failure inside fn is retried", func(t *testing.T) {
		beginner := &fakeBeginner{}
		m := NewTransactionManager(beginner)

		// Репозитории оборачивают ошибку драйвера своим sentinel
		wrapped := fmt.Errorf("%w: ListActive - execute query: %w",
			errors.New("reservation storage: execute query failed"), serializationErr())

		err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
			return wrapped
		})

		assert.ErrorIs(t, err, ErrTxFailed)
		assert.Equal(t, maxAttempts, beginner.begins)
		assert.Equal(t, maxAttempts, beginner.rollbacks)
	})

	t.Run("business error is not retried", func(t *testing.T) {
		beginner := &fakeBeginner{}
		m := NewTransactionManager(beginner)

		bizErr := errors.New("slot already taken")
		err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
			return bizErr
		})

		assert.ErrorIs(t, err, bizErr)
		assert.Equal(t, 1, beginner.begins)
	})

	t.Run("serialization failure at commit is retried", func(t *testing.T) {
		beginner := &fakeBeginner{
			commitErr: func(attempt int) error {
				if attempt == 1 {
					return serializationErr()
				}
				return nil
			},
		}
		m := NewTransactionManager(beginner)

		err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, beginner.begins)
	})

	t.Run("deadlock is retried", func(t *testing.T) {
		beginner := &fakeBeginner{}
		m := NewTransactionManager(beginner)

		err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
			return fmt.Errorf("wrapped: %w", &pq.Error{Code: "40P01"})
		})

		assert.ErrorIs(t, err, ErrTxFailed)
		assert.Equal(t, maxAttempts, beginner.begins)
	})
}
