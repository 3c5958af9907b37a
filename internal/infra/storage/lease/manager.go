package lease

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Результаты попытки аренды для метрик
const (
	ResultAcquired  = "acquired"
	ResultRefreshed = "refreshed"
	ResultRejected  = "rejected"
	ResultOccupied  = "occupied"
	ResultTimeout   = "timeout"
)

// Config параметры менеджера аренд
type Config struct {
	TTL         time.Duration
	LockWait    time.Duration
	TierMinutes map[domain.DurationTier]int
	// CellMinutes шаг сетки блокировок; 0 = НОД ширин тарифов
	CellMinutes int
}

type dayKey struct {
	providerID string
	date       string
}

// Manager хранит аренды слотов в памяти процесса.
// Изменения сериализуются блокировками ячеек, которые покрывает окно слота,
// поэтому непересекающиеся окна друг друга не блокируют.
type Manager struct {
	cfg       Config
	clock     TimeProvider
	occupancy OccupancyChecker
	metrics   Metrics
	logger    Logger

	cells *cellLocks

	mu     sync.RWMutex
	leases map[dayKey]map[domain.SlotKey]*domain.Lease
}

// NewManager создает менеджер аренд
func NewManager(cfg Config, clock TimeProvider, occupancy OccupancyChecker, metrics Metrics, logger Logger) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = domain.DefaultLeaseTTL
	}
	if cfg.LockWait <= 0 {
		cfg.LockWait = domain.DefaultLockWait
	}
	if len(cfg.TierMinutes) == 0 {
		cfg.TierMinutes = map[domain.DurationTier]int{
			domain.TierShort:    domain.DefaultShortSlotMinutes,
			domain.TierStandard: domain.DefaultStandardSlotMinutes,
		}
	}
	if cfg.CellMinutes <= 0 {
		cfg.CellMinutes = cellWidth(cfg.TierMinutes)
	}
	if clock == nil {
		clock = &RealTimeProvider{}
	}

	return &Manager{
		cfg:       cfg,
		clock:     clock,
		occupancy: occupancy,
		metrics:   metrics,
		logger:    logger,
		cells:     newCellLocks(),
		leases:    make(map[dayKey]map[domain.SlotKey]*domain.Lease),
	}
}

// TierMinutes возвращает ширину окна тарифа
func (m *Manager) TierMinutes(tier domain.DurationTier) (int, bool) {
	minutes, ok := m.cfg.TierMinutes[tier]
	return minutes, ok
}

// TTL возвращает время жизни аренды
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}

// Acquire выдает клиенту аренду слота.
// Повторный вызов тем же клиентом продлевает ту же аренду (id сохраняется).
// Аренда того же клиента на пересекающемся окне с другим ключом заменяется новой.
func (m *Manager) Acquire(ctx context.Context, slot domain.SlotKey, tier domain.DurationTier, holderID string) (*domain.Lease, error) {
	if strings.TrimSpace(holderID) == "" {
		return nil, fmt.Errorf("%w: holderId is required", ErrInvalidSlot)
	}
	minutes, ok := m.cfg.TierMinutes[tier]
	if !ok {
		return nil, fmt.Errorf("%w: unknown tier %q", ErrInvalidSlot, tier)
	}
	window, err := m.window(slot, minutes)
	if err != nil {
		return nil, err
	}

	unlock, err := m.lockWindow(ctx, slot, window)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := m.clock.Now()

	// 1. Ищем пересекающиеся активные аренды
	var (
		existing *domain.Lease
		replaced []domain.SlotKey
	)
	for _, l := range m.dayLeases(slot) {
		if !l.IsActiveAt(now) {
			continue
		}
		lw, err := l.Window()
		if err != nil || !lw.Overlaps(window) {
			continue
		}
		if l.HolderID != holderID {
			m.incAcquisition(ResultRejected)
			return nil, ErrRejected
		}
		if l.Slot == slot && l.Tier == tier {
			existing = copyLease(&l)
			continue
		}
		replaced = append(replaced, l.Slot)
	}

	// 2. Проверяем, что окно не занято бронированием
	if m.occupancy != nil {
		occupied, err := m.occupancy.IsOccupied(ctx, slot, window)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOccupancyCheck, err)
		}
		if occupied {
			m.incAcquisition(ResultOccupied)
			return nil, fmt.Errorf("%w: %w", ErrRejected, ErrSlotOccupied)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	day := m.ensureDay(slot)
	for _, key := range replaced {
		if l, ok := day[key]; ok && l.HolderID == holderID {
			l.Status = domain.LeaseReleased
			delete(day, key)
		}
	}

	// 3. Продлеваем существующую аренду
	if existing != nil {
		existing.Status = domain.LeaseActive
		existing.ExpiresAt = now.Add(m.cfg.TTL)
		day[slot] = existing
		m.incAcquisition(ResultRefreshed)
		return copyLease(existing), nil
	}

	// 4. Выдаем новую аренду
	l := &domain.Lease{
		ID:              uuid.NewString(),
		Slot:            slot,
		Tier:            tier,
		DurationMinutes: minutes,
		HolderID:        holderID,
		CreatedAt:       now,
		ExpiresAt:       now.Add(m.cfg.TTL),
		Status:          domain.LeaseActive,
	}
	day[slot] = l
	m.incAcquisition(ResultAcquired)

	return copyLease(l), nil
}

// Release снимает аренду клиента. Отсутствие аренды не является ошибкой.
func (m *Manager) Release(ctx context.Context, slot domain.SlotKey, holderID string) error {
	current, ok := m.lookup(slot)
	if !ok || current.HolderID != holderID {
		return nil
	}

	window, err := current.Window()
	if err != nil {
		return nil
	}

	unlock, err := m.lockWindow(ctx, slot, window)
	if err != nil {
		return err
	}
	defer unlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	day := m.leases[dayKey{providerID: slot.ProviderID, date: slot.Date}]
	l, ok := day[slot]
	if !ok || l.HolderID != holderID || l.Status != domain.LeaseActive {
		return nil
	}
	l.Status = domain.LeaseReleased
	m.deleteLocked(slot)

	return nil
}

// IsHeld проверяет, удерживается ли слот активной арендой
func (m *Manager) IsHeld(slot domain.SlotKey) bool {
	_, ok := m.Get(slot)
	return ok
}

// Get возвращает активную аренду слота; истекшие аренды не возвращаются
func (m *Manager) Get(slot domain.SlotKey) (*domain.Lease, bool) {
	l, ok := m.lookup(slot)
	if !ok || !l.IsActiveAt(m.clock.Now()) {
		return nil, false
	}
	return l, true
}

// Consume под блокировкой слота проверяет аренду клиента и выполняет fn.
// При успехе fn аренда переходит в consumed, при ошибке остается активной.
func (m *Manager) Consume(ctx context.Context, slot domain.SlotKey, holderID string, fn func(ctx context.Context, l domain.Lease) error) error {
	current, ok := m.Get(slot)
	if !ok || current.HolderID != holderID {
		return ErrLeaseNotHeld
	}

	window, err := current.Window()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}

	unlock, err := m.lockWindow(ctx, slot, window)
	if err != nil {
		return err
	}
	defer unlock()

	// Аренда могла истечь или смениться, пока ждали блокировку
	m.mu.RLock()
	l, ok := m.leases[dayKey{providerID: slot.ProviderID, date: slot.Date}][slot]
	held := ok && l.HolderID == holderID && l.ID == current.ID && l.IsActiveAt(m.clock.Now())
	var snapshot domain.Lease
	if held {
		snapshot = *l
	}
	m.mu.RUnlock()

	if !held {
		return ErrLeaseNotHeld
	}

	if err := fn(ctx, snapshot); err != nil {
		return err
	}

	m.mu.Lock()
	l.Status = domain.LeaseConsumed
	m.deleteLocked(slot)
	m.mu.Unlock()

	return nil
}

// WithSlotLock выполняет fn под блокировкой окна слота заданной ширины
func (m *Manager) WithSlotLock(ctx context.Context, slot domain.SlotKey, minutes int, fn func(ctx context.Context) error) error {
	window, err := m.window(slot, minutes)
	if err != nil {
		return err
	}

	unlock, err := m.lockWindow(ctx, slot, window)
	if err != nil {
		return err
	}
	defer unlock()

	return fn(ctx)
}

// ActiveLeases возвращает активные аренды провайдера на дату (по времени начала)
func (m *Manager) ActiveLeases(providerID, date string, now time.Time) []domain.Lease {
	m.mu.RLock()
	defer m.mu.RUnlock()

	day := m.leases[dayKey{providerID: providerID, date: date}]
	result := make([]domain.Lease, 0, len(day))
	for _, l := range day {
		if l.IsActiveAt(now) {
			result = append(result, *l)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Slot.StartTime.IsBefore(result[j].Slot.StartTime)
	})

	return result
}

// Sweep удаляет неактивные аренды и возвращает их количество.
// Повторный вызов безопасен.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	swept := 0
	for dk, day := range m.leases {
		for key, l := range day {
			if l.IsActiveAt(now) {
				continue
			}
			if l.Status == domain.LeaseActive {
				l.Status = domain.LeaseExpired
			}
			delete(day, key)
			swept++
		}
		if len(day) == 0 {
			delete(m.leases, dk)
		}
	}

	return swept
}

func (m *Manager) window(slot domain.SlotKey, minutes int) (domain.TimeWindow, error) {
	if err := slot.Validate(); err != nil {
		return domain.TimeWindow{}, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}
	if minutes <= 0 {
		return domain.TimeWindow{}, fmt.Errorf("%w: non-positive duration %d", ErrInvalidSlot, minutes)
	}
	window, err := slot.Window(minutes)
	if err != nil {
		return domain.TimeWindow{}, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}
	return window, nil
}

func (m *Manager) lockWindow(ctx context.Context, slot domain.SlotKey, window domain.TimeWindow) (func(), error) {
	keys, err := m.cellsFor(slot, window)
	if err != nil {
		return nil, err
	}

	unlock, err := m.cells.lock(ctx, keys, m.cfg.LockWait)
	if errors.Is(err, ErrLockContentionTimeout) {
		m.incAcquisition(ResultTimeout)
		if m.metrics != nil {
			m.metrics.IncLockTimeout()
		}
		if m.logger != nil {
			m.logger.Warn("Lease lock contention timeout: slot=%s", slot)
		}
	}
	return unlock, err
}

// cellsFor ячейки сетки, которые покрывает окно [start, end)
func (m *Manager) cellsFor(slot domain.SlotKey, window domain.TimeWindow) ([]cellKey, error) {
	start, err := window.Start.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}
	end, err := window.End.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}

	first := start / m.cfg.CellMinutes
	last := (end - 1) / m.cfg.CellMinutes

	keys := make([]cellKey, 0, last-first+1)
	for c := first; c <= last; c++ {
		keys = append(keys, cellKey{providerID: slot.ProviderID, date: slot.Date, cell: c})
	}
	return keys, nil
}

func (m *Manager) lookup(slot domain.SlotKey) (*domain.Lease, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.leases[dayKey{providerID: slot.ProviderID, date: slot.Date}][slot]
	if !ok {
		return nil, false
	}
	return copyLease(l), true
}

// dayLeases снимок аренд провайдера на дату
func (m *Manager) dayLeases(slot domain.SlotKey) []domain.Lease {
	m.mu.RLock()
	defer m.mu.RUnlock()

	day := m.leases[dayKey{providerID: slot.ProviderID, date: slot.Date}]
	result := make([]domain.Lease, 0, len(day))
	for _, l := range day {
		result = append(result, *l)
	}
	return result
}

// ensureDay вызывается под m.mu
func (m *Manager) ensureDay(slot domain.SlotKey) map[domain.SlotKey]*domain.Lease {
	dk := dayKey{providerID: slot.ProviderID, date: slot.Date}
	day, ok := m.leases[dk]
	if !ok {
		day = make(map[domain.SlotKey]*domain.Lease)
		m.leases[dk] = day
	}
	return day
}

// deleteLocked вызывается под m.mu
func (m *Manager) deleteLocked(slot domain.SlotKey) {
	dk := dayKey{providerID: slot.ProviderID, date: slot.Date}
	day, ok := m.leases[dk]
	if !ok {
		return
	}
	delete(day, slot)
	if len(day) == 0 {
		delete(m.leases, dk)
	}
}

func (m *Manager) incAcquisition(result string) {
	if m.metrics != nil {
		m.metrics.IncLeaseAcquisition(result)
	}
}

func copyLease(l *domain.Lease) *domain.Lease {
	c := *l
	return &c
}

// cellWidth НОД ширин тарифов
func cellWidth(tiers map[domain.DurationTier]int) int {
	g := 0
	for _, minutes := range tiers {
		g = gcd(g, minutes)
	}
	if g <= 0 {
		return 1
	}
	return g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
