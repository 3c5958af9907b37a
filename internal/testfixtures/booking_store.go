package testfixtures

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/booking"
)

// BookingStore хранилище бронирований в памяти.
// Повторяет уникальные индексы таблицы bookings: один активный бронь на начало слота
// и одна short-бронь на клиента.
type BookingStore struct {
	mu       sync.Mutex
	bookings map[string]*domain.Booking
	order    []string
	now      func() time.Time
}

// NewBookingStore создает пустое хранилище
func NewBookingStore(now func() time.Time) *BookingStore {
	if now == nil {
		now = time.Now
	}
	return &BookingStore{
		bookings: make(map[string]*domain.Booking),
		now:      now,
	}
}

// Seed добавляет бронирование в обход проверок
func (s *BookingStore) Seed(b *domain.Booking) *domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	c := copyBooking(b)
	s.bookings[c.ID] = c
	s.order = append(s.order, c.ID)
	return copyBooking(c)
}

// Len количество бронирований
func (s *BookingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *BookingStore) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bookings {
		if b.IsActive() && existing.IsActive() &&
			existing.ProviderID == b.ProviderID &&
			existing.Slot.Date == b.Slot.Date &&
			existing.Slot.StartTime == b.Slot.StartTime {
			return nil, bookingRepo.ErrSlotTaken
		}
		if b.DurationTier == domain.TierShort &&
			existing.DurationTier == domain.TierShort &&
			existing.ClientID == b.ClientID {
			return nil, bookingRepo.ErrFreeTierUsed
		}
	}

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := s.now()
	b.CreatedAt = now
	b.UpdatedAt = now

	c := copyBooking(b)
	s.bookings[c.ID] = c
	s.order = append(s.order, c.ID)

	return b, nil
}

func (s *BookingStore) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return copyBooking(b), nil
}

func (s *BookingStore) GetByClientID(ctx context.Context, clientID string) ([]*domain.Booking, error) {
	result := s.filter(func(b *domain.Booking) bool { return b.ClientID == clientID })
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Slot.Date > result[j].Slot.Date ||
			(result[i].Slot.Date == result[j].Slot.Date && result[i].Slot.StartTime.IsAfter(result[j].Slot.StartTime))
	})
	return result, nil
}

func (s *BookingStore) GetActiveByProviderAndDate(ctx context.Context, providerID, date string) ([]*domain.Booking, error) {
	result := s.filter(func(b *domain.Booking) bool {
		return b.ProviderID == providerID && b.Slot.Date == date && b.IsActive()
	})
	sortByStart(result)
	return result, nil
}

func (s *BookingStore) GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	result := s.filter(func(b *domain.Booking) bool {
		if b.ProviderID != filter.ProviderID {
			return false
		}
		if filter.StartDate != nil && b.Slot.Date < filter.StartDate.Format(domain.DateFormat) {
			return false
		}
		if filter.EndDate != nil && b.Slot.Date > filter.EndDate.Format(domain.DateFormat) {
			return false
		}
		if filter.Status != nil {
			return b.Status == *filter.Status
		}
		return filter.IncludeInactive || !b.IsCancelled()
	})
	sortByStart(result)
	return result, nil
}

func (s *BookingStore) HasShortBooking(ctx context.Context, clientID string) (bool, error) {
	result := s.filter(func(b *domain.Booking) bool {
		return b.ClientID == clientID && b.DurationTier == domain.TierShort
	})
	return len(result) > 0, nil
}

func (s *BookingStore) UpdatePayment(ctx context.Context, id string, paymentStatus domain.PaymentStatus, status domain.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.PaymentStatus = paymentStatus
	b.Status = status
	b.UpdatedAt = s.now()
	return nil
}

func (s *BookingStore) Cancel(ctx context.Context, id string, refund domain.RefundDecision, cancelledAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	r := refund
	b.Status = domain.StatusCancelled
	b.Refund = &r
	b.CancelledAt = &cancelledAt
	b.UpdatedAt = s.now()
	return nil
}

func (s *BookingStore) filter(keep func(b *domain.Booking) bool) []*domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.Booking, 0)
	for _, id := range s.order {
		b := s.bookings[id]
		if keep(b) {
			result = append(result, copyBooking(b))
		}
	}
	return result
}

func sortByStart(bookings []*domain.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if bookings[i].Slot.Date != bookings[j].Slot.Date {
			return bookings[i].Slot.Date < bookings[j].Slot.Date
		}
		return bookings[i].Slot.StartTime.IsBefore(bookings[j].Slot.StartTime)
	})
}

func copyBooking(b *domain.Booking) *domain.Booking {
	c := *b
	if b.PreviewAmount != nil {
		v := *b.PreviewAmount
		c.PreviewAmount = &v
	}
	if b.Refund != nil {
		r := *b.Refund
		c.Refund = &r
	}
	if b.CancelledAt != nil {
		t := *b.CancelledAt
		c.CancelledAt = &t
	}
	return &c
}
