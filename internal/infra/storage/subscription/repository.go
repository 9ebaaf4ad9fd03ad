package subscription

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"laundry-booking-service/pkg/dbmetrics"
	"laundry-booking-service/pkg/psqlbuilder"
)

// PushSubscription web push подписка пользователя
type PushSubscription struct {
	Endpoint string
	P256DH   string
	Auth     string
	OwnerID  int64
}

// Repository репозиторий push-подписок
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория подписок
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert сохраняет подписку, обновляя ключи при повторной регистрации endpoint'а
func (r *Repository) Upsert(ctx context.Context, sub *PushSubscription) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("push_subscriptions").
		Columns("endpoint", "p256dh", "auth", "owner_id").
		Values(sub.Endpoint, sub.P256DH, sub.Auth, sub.OwnerID).
		Suffix("ON CONFLICT (endpoint) DO UPDATE SET p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth, owner_id = EXCLUDED.owner_id").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListByOwner возвращает подписки пользователя
func (r *Repository) ListByOwner(ctx context.Context, ownerID int64) ([]*PushSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("endpoint", "p256dh", "auth", "owner_id").
		From("push_subscriptions").
		Where(squirrel.Eq{"owner_id": ownerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByOwner - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByOwner - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSubscriptions(rows)
}

// ListAll возвращает все подписки (рассылка о завершении цикла машины)
func (r *Repository) ListAll(ctx context.Context) ([]*PushSubscription, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("endpoint", "p256dh", "auth", "owner_id").
		From("push_subscriptions").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAll - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanSubscriptions(rows)
}

// Delete удаляет подписку (например, когда push-сервис вернул 410 Gone)
func (r *Repository) Delete(ctx context.Context, endpoint string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("push_subscriptions").
		Where(squirrel.Eq{"endpoint": endpoint}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

func (r *Repository) scanSubscriptions(rows *sql.Rows) ([]*PushSubscription, error) {
	subs := make([]*PushSubscription, 0)

	for rows.Next() {
		var sub PushSubscription
		if err := rows.Scan(&sub.Endpoint, &sub.P256DH, &sub.Auth, &sub.OwnerID); err != nil {
			return nil, fmt.Errorf("%w: scanSubscriptions - scan row: %v", ErrScanRow, err)
		}
		subs = append(subs, &sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSubscriptions - rows error: %v", ErrScanRow, err)
	}

	return subs, nil
}
