package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// occupiedWindows собирает окна, занятые активными бронированиями и арендами
func occupiedWindows(bookings []*domain.Booking, leases []domain.Lease) ([]domain.TimeWindow, error) {
	result := make([]domain.TimeWindow, 0, len(bookings)+len(leases))

	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		w, err := b.Window()
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}

	for i := range leases {
		w, err := leases[i].Window()
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}

	return result, nil
}

// filterFreeWindows оставляет окна, которые не нарушают правила уведомления
// и не пересекаются с занятыми окнами
func filterFreeWindows(
	providerID string,
	date time.Time,
	tier domain.DurationTier,
	minutes int,
	windows []domain.TimeWindow,
	occupied []domain.TimeWindow,
	policy domain.BookingWindowPolicy,
	now time.Time,
	loc *time.Location,
) ([]domain.AvailableSlot, error) {
	result := make([]domain.AvailableSlot, 0, len(windows))

	for _, w := range windows {
		startsAt, err := w.Start.On(date, loc)
		if err != nil {
			return nil, err
		}
		if policy.Check(startsAt, now) != nil {
			continue
		}
		if overlapsAny(w, occupied) {
			continue
		}

		result = append(result, domain.AvailableSlot{
			Slot:            domain.NewSlotKey(providerID, date, w.Start),
			EndTime:         w.End,
			DurationMinutes: minutes,
			Tier:            tier,
		})
	}

	return result, nil
}

// overlapsAny проверяет пересечение окна с любым из занятых (строгие неравенства)
func overlapsAny(w domain.TimeWindow, occupied []domain.TimeWindow) bool {
	for _, o := range occupied {
		if w.Overlaps(o) {
			return true
		}
	}
	return false
}
