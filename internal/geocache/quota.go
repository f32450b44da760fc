// README: Process-local daily quota counter for provider calls.
package geocache

import (
	"sync"
	"time"
)

// QuotaCounter caps provider calls per calendar day. The counter is in-process
// memory: with several instances behind a load balancer each process counts
// its own calls, so the true daily usage is undercounted. Known limitation;
// moving the counter into the shared cache store would fix it at the cost of
// a round-trip per call.
//
// The day rolls over lazily on access instead of via a timer, which keeps the
// counter deterministic under test.
type QuotaCounter struct {
	mu    sync.Mutex
	limit int
	used  int
	day   string
	nowFn func() time.Time
}

func NewQuotaCounter(limit int) *QuotaCounter {
	return &QuotaCounter{limit: limit, nowFn: time.Now}
}

// Take reserves one provider call. It returns false when the daily limit is
// already spent; the reservation is not refunded on provider failure since a
// failed call still counts against the upstream quota.
func (q *QuotaCounter) Take() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.rollover()
	if q.used >= q.limit {
		return false
	}
	q.used++
	return true
}

// Usage reports calls used and the configured limit for the current day.
func (q *QuotaCounter) Usage() (used, limit int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.rollover()
	return q.used, q.limit
}

func (q *QuotaCounter) rollover() {
	today := q.nowFn().Format("2006-01-02")
	if q.day != today {
		q.day = today
		q.used = 0
	}
}
