package testfixtures

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// AvailabilityStore хранилище расписаний провайдеров в памяти
type AvailabilityStore struct {
	mu   sync.Mutex
	days map[string]map[time.Weekday]domain.ProviderAvailability
	seq  int64
}

// NewAvailabilityStore создает пустое хранилище
func NewAvailabilityStore() *AvailabilityStore {
	return &AvailabilityStore{days: make(map[string]map[time.Weekday]domain.ProviderAvailability)}
}

// SetDay сохраняет расписание провайдера на день недели
func (s *AvailabilityStore) SetDay(providerID string, weekday time.Weekday, start, end string, active bool) {
	_, _ = s.Upsert(context.Background(), &domain.ProviderAvailability{
		ProviderID: providerID,
		Weekday:    weekday,
		StartTime:  types.TimeString(start),
		EndTime:    types.TimeString(end),
		IsActive:   active,
	})
}

func (s *AvailabilityStore) GetByProvider(ctx context.Context, providerID string) ([]*domain.ProviderAvailability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.ProviderAvailability, 0, len(s.days[providerID]))
	for _, a := range s.days[providerID] {
		c := a
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Weekday < result[j].Weekday })
	return result, nil
}

func (s *AvailabilityStore) GetByProviderAndWeekday(ctx context.Context, providerID string, weekday time.Weekday) (*domain.ProviderAvailability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.days[providerID][weekday]
	if !ok {
		return nil, availabilityRepo.ErrAvailabilityNotFound
	}
	return &a, nil
}

func (s *AvailabilityStore) Upsert(ctx context.Context, a *domain.ProviderAvailability) (*domain.ProviderAvailability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day, ok := s.days[a.ProviderID]
	if !ok {
		day = make(map[time.Weekday]domain.ProviderAvailability)
		s.days[a.ProviderID] = day
	}

	saved := *a
	if existing, ok := day[a.Weekday]; ok {
		saved.ID = existing.ID
		saved.CreatedAt = existing.CreatedAt
	} else {
		s.seq++
		saved.ID = s.seq
		saved.CreatedAt = time.Now()
	}
	saved.UpdatedAt = time.Now()
	day[a.Weekday] = saved

	return &saved, nil
}
