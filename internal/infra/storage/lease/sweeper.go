package lease

import (
	"context"
	"time"
)

// RunSweeper периодически удаляет истекшие аренды до отмены контекста.
// Корректность не зависит от работы сборщика: истечение проверяется лениво.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept := m.Sweep(m.clock.Now())
			if swept == 0 {
				continue
			}
			if m.metrics != nil {
				m.metrics.AddLeasesSwept(swept)
			}
			if m.logger != nil {
				m.logger.Info("Lease sweeper: removed %d inactive leases", swept)
			}
		}
	}
}
