package services

import (
	"errors"
	"sync"
	"time"
)

// MaxOrderCode is the largest integer that survives a round trip through a
// JSON number on the gateway side.
const MaxOrderCode int64 = 1<<53 - 1

var ErrOrderCodeOverflow = errors.New("order code exceeds the maximum safe integer")

// OrderCodeGenerator hands out millisecond-derived order codes that strictly
// increase within the process.
type OrderCodeGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewOrderCodeGenerator(now func() time.Time) *OrderCodeGenerator {
	if now == nil {
		now = time.Now
	}
	return &OrderCodeGenerator{now: now}
}

func (g *OrderCodeGenerator) Next() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	code := g.now().UnixMilli()
	if code <= g.last {
		code = g.last + 1
	}
	if code > MaxOrderCode || code <= 0 {
		return 0, ErrOrderCodeOverflow
	}
	g.last = code
	return code, nil
}
