package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/psqlbuilder"
)

const tableBookings = "bookings"

var bookingColumns = []string{
	"id",
	"client_id",
	"provider_id",
	"service_id",
	"duration_tier",
	"booking_date",
	"start_time",
	"duration_minutes",
	"country",
	"currency",
	"amount",
	"preview_amount",
	"payment_status",
	"status",
	"refund_eligible",
	"refund_percentage",
	"refund_reason",
	"refund_amount",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Нарушения уникальности переводятся в ErrSlotTaken / ErrFreeTierUsed
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}

	query, args, err := psqlbuilder.Insert(tableBookings).
		Columns(
			"id",
			"client_id",
			"provider_id",
			"service_id",
			"duration_tier",
			"booking_date",
			"start_time",
			"duration_minutes",
			"country",
			"currency",
			"amount",
			"preview_amount",
			"payment_status",
			"status",
		).
		Values(
			booking.ID,
			booking.ClientID,
			booking.ProviderID,
			booking.ServiceID,
			booking.DurationTier,
			booking.Slot.Date,
			booking.Slot.StartTime,
			booking.DurationMinutes,
			booking.Country,
			booking.Currency,
			booking.Amount,
			booking.PreviewAmount,
			booking.PaymentStatus,
			booking.Status,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, mapPQError("Create - execute insert", err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrBookingNotFound
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByClientID получает историю бронирований клиента (сначала новые)
func (r *Repository) GetByClientID(ctx context.Context, clientID string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("booking_date DESC", "start_time DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetActiveByProviderAndDate получает бронирования, занимающие слоты провайдера на дату
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) GetActiveByProviderAndDate(ctx context.Context, providerID, date string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{
			"provider_id":  providerID,
			"booking_date": date,
			"status":       statusStrings(domain.ActiveStatuses),
		}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByProviderAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByProviderAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByProviderWithFilter получает бронирования провайдера с фильтрацией по периоду и статусу
func (r *Repository) GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"provider_id": filter.ProviderID})

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": filter.EndDate.Format(domain.DateFormat)})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)})
	}

	selectBuilder = selectBuilder.OrderBy("booking_date ASC", "start_time ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// HasShortBooking проверяет, создавал ли клиент бронирование short (в любом статусе)
func (r *Repository) HasShortBooking(ctx context.Context, clientID string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From(tableBookings).
		Where(squirrel.Eq{
			"client_id":     clientID,
			"duration_tier": domain.TierShort,
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasShortBooking - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasShortBooking - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// UpdatePayment обновляет статус оплаты и статус бронирования
func (r *Repository) UpdatePayment(ctx context.Context, id string, paymentStatus domain.PaymentStatus, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("payment_status", paymentStatus).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdatePayment - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdatePayment", query, args)
}

// Cancel переводит бронирование в cancelled и сохраняет решение о возврате
func (r *Repository) Cancel(ctx context.Context, id string, refund domain.RefundDecision, cancelledAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("status", domain.StatusCancelled).
		Set("refund_eligible", refund.Eligible).
		Set("refund_percentage", refund.Percentage).
		Set("refund_reason", refund.Reason).
		Set("refund_amount", refund.Amount).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Cancel", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return mapPQError(op+" - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в domain.Booking
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking          domain.Booking
		bookingDate      time.Time
		previewAmount    sql.NullInt64
		refundEligible   sql.NullBool
		refundPercentage sql.NullInt64
		refundReason     sql.NullString
		refundAmount     sql.NullInt64
		cancelledAt      sql.NullTime
		createdAt        sql.NullTime
		updatedAt        sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.ClientID,
		&booking.ProviderID,
		&booking.ServiceID,
		&booking.DurationTier,
		&bookingDate,
		&booking.Slot.StartTime,
		&booking.DurationMinutes,
		&booking.Country,
		&booking.Currency,
		&booking.Amount,
		&previewAmount,
		&booking.PaymentStatus,
		&booking.Status,
		&refundEligible,
		&refundPercentage,
		&refundReason,
		&refundAmount,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Slot.ProviderID = booking.ProviderID
	booking.Slot.Date = bookingDate.Format(domain.DateFormat)

	if previewAmount.Valid {
		v := previewAmount.Int64
		booking.PreviewAmount = &v
	}
	if refundEligible.Valid {
		booking.Refund = &domain.RefundDecision{
			Eligible:   refundEligible.Bool,
			Percentage: int(refundPercentage.Int64),
			Reason:     refundReason.String,
			Amount:     refundAmount.Int64,
		}
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		booking.CancelledAt = &t
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
