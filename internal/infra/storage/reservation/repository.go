package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"laundry-booking-service/internal/domain"
	"laundry-booking-service/pkg/dbmetrics"
	"laundry-booking-service/pkg/psqlbuilder"
)

// Код ошибки PostgreSQL для нарушения exclusion constraint
const pqExclusionViolation = "23P01"

// Repository репозиторий для работы с бронированиями прачечной
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Insert создает новое бронирование.
// Вставка атомарна относительно проверки пересечений: схема содержит
// exclusion constraint (resource_id, tstzrange(start_time, end_time)),
// поэтому из двух параллельных вставок пересекающихся интервалов
// зафиксируется ровно одна, вторая получит ErrSlotConflict.
func (r *Repository) Insert(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"resource_id",
			"owner_id",
			"start_time",
			"end_time",
			"notes",
		).
		Values(
			res.ResourceID,
			res.OwnerID,
			res.Interval.Start,
			res.Interval.End,
			res.Notes,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Insert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqExclusionViolation {
			return nil, ErrSlotConflict
		}
		return nil, fmt.Errorf("%w: Insert - execute insert: %w", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time

	return res, nil
}

// ListActive возвращает бронирования ресурса, пересекающие диапазон
// [rangeStart, rangeEnd), отсортированные по start_time ASC.
// Диапазонный запрос: полная история никогда не сканируется.
// Внутри транзакции добавляется FOR UPDATE, чтобы проверка пересечений
// при создании бронирования держала блокировку до вставки.
func (r *Repository) ListActive(ctx context.Context, resourceID domain.ResourceID, rangeStart, rangeEnd time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"resource_id",
		"owner_id",
		"start_time",
		"end_time",
		"notes",
		"created_at",
	).
		From("reservations").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Lt{"start_time": rangeEnd}).
		Where(squirrel.Gt{"end_time": rangeStart}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// ListRange возвращает бронирования всех ресурсов, пересекающие диапазон
// [rangeStart, rangeEnd), для календарного представления.
// Опциональный фильтр по ресурсу
func (r *Repository) ListRange(ctx context.Context, resourceID *domain.ResourceID, rangeStart, rangeEnd time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"resource_id",
		"owner_id",
		"start_time",
		"end_time",
		"notes",
		"created_at",
	).
		From("reservations").
		Where(squirrel.Lt{"start_time": rangeEnd}).
		Where(squirrel.Gt{"end_time": rangeStart}).
		OrderBy("start_time ASC")

	if resourceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_id": *resourceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"resource_id",
		"owner_id",
		"start_time",
		"end_time",
		"notes",
		"created_at",
	).
		From("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := r.scanReservation(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	return res, nil
}

// GetByOwner получает бронирования пользователя, сначала будущие
func (r *Repository) GetByOwner(ctx context.Context, ownerID int64) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"resource_id",
		"owner_id",
		"start_time",
		"end_time",
		"notes",
		"created_at",
	).
		From("reservations").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("start_time DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwner - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByOwner - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// Delete удаляет бронирование
// Бронирования не редактируются после создания, отмена это удаление
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

func (r *Repository) scanReservation(row *sql.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.ResourceID,
		&res.OwnerID,
		&res.Interval.Start,
		&res.Interval.End,
		&res.Notes,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanReservation - scan row: %w", ErrScanRow, err)
	}

	res.CreatedAt = createdAt.Time

	return &res, nil
}

func (r *Repository) scanReservations(rows *sql.Rows) ([]*domain.Reservation, error) {
	reservations := make([]*domain.Reservation, 0)

	for rows.Next() {
		var res domain.Reservation
		var createdAt sql.NullTime

		err := rows.Scan(
			&res.ID,
			&res.ResourceID,
			&res.OwnerID,
			&res.Interval.Start,
			&res.Interval.End,
			&res.Notes,
			&createdAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanReservations - scan row: %w", ErrScanRow, err)
		}

		res.CreatedAt = createdAt.Time

		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanReservations - rows error: %w", ErrScanRow, err)
	}

	return reservations, nil
}
