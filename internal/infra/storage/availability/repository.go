package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/psqlbuilder"
)

const tableAvailability = "provider_availability"

var availabilityColumns = []string{
	"id",
	"provider_id",
	"weekday",
	"start_time",
	"end_time",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с расписанием провайдеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByProvider получает все сохраненные дни расписания провайдера (по порядку дней недели)
func (r *Repository) GetByProvider(ctx context.Context, providerID string) ([]*domain.ProviderAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(availabilityColumns...).
		From(tableAvailability).
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.ProviderAvailability, 0, 7)
	for rows.Next() {
		a, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByProvider - scan row: %v", ErrScanRow, err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// GetByProviderAndWeekday получает расписание провайдера на день недели
func (r *Repository) GetByProviderAndWeekday(ctx context.Context, providerID string, weekday time.Weekday) (*domain.ProviderAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(availabilityColumns...).
		From(tableAvailability).
		Where(squirrel.Eq{
			"provider_id": providerID,
			"weekday":     int(weekday),
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndWeekday - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAvailability(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAvailabilityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndWeekday - scan availability: %v", ErrScanRow, err)
	}

	return a, nil
}

// Upsert создает или обновляет расписание провайдера на день недели
func (r *Repository) Upsert(ctx context.Context, a *domain.ProviderAvailability) (*domain.ProviderAvailability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableAvailability).
		Columns(
			"provider_id",
			"weekday",
			"start_time",
			"end_time",
			"is_active",
		).
		Values(
			a.ProviderID,
			int(a.Weekday),
			a.StartTime,
			a.EndTime,
			a.IsActive,
		).
		Suffix(`ON CONFLICT (provider_id, weekday) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAvailability(row rowScanner) (*domain.ProviderAvailability, error) {
	var (
		a                    domain.ProviderAvailability
		weekday              int
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.ProviderID,
		&weekday,
		&a.StartTime,
		&a.EndTime,
		&a.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Weekday = time.Weekday(weekday)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}
