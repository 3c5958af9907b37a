package testfixtures

import (
	"sync"
	"time"
)

// IST зона по умолчанию для расписаний в тестах
var IST = time.FixedZone("IST", 5*60*60+30*60)

var referenceTime = time.Date(2025, time.March, 10, 9, 0, 0, 0, IST)

// ReferenceTime базовый момент времени для фикстур (понедельник, 09:00 IST)
func ReferenceTime() time.Time {
	return referenceTime
}

// Clock управляемый источник времени для тестов
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock создает часы, установленные на start (или на ReferenceTime)
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

// Now возвращает текущее время часов
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set переводит часы на t
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance сдвигает часы вперед и возвращает новое время
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.current = c.current.Add(d)
	updated := c.current
	c.mu.Unlock()
	return updated
}
