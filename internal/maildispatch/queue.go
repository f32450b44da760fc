// README: Two-class delay queue; jobs carry a not-before timestamp instead of timers.
package maildispatch

import "time"

// delayQueue holds jobs per priority class in submission order. It is not
// safe for concurrent use on its own; the service serializes access.
//
// Retries are re-pushed with a future NotBefore rather than parked on a
// timer, so eligibility is a pure function of the clock and tests can drive
// it deterministically.
type delayQueue struct {
	high   []*Job
	normal []*Job
}

func (q *delayQueue) push(j *Job) {
	if j.Priority == PriorityHigh {
		q.high = append(q.high, j)
		return
	}
	q.normal = append(q.normal, j)
}

// popEligible removes and returns the next job whose NotBefore has passed.
// The high class always preempts normal; within a class order is FIFO.
func (q *delayQueue) popEligible(now time.Time) *Job {
	if j := popFrom(&q.high, now); j != nil {
		return j
	}
	return popFrom(&q.normal, now)
}

func popFrom(class *[]*Job, now time.Time) *Job {
	for i, j := range *class {
		if !j.NotBefore.After(now) {
			*class = append((*class)[:i], (*class)[i+1:]...)
			return j
		}
	}
	return nil
}

// nextWake returns how long until the earliest pending job becomes eligible.
// Callers must ensure the queue is non-empty.
func (q *delayQueue) nextWake(now time.Time) time.Duration {
	var earliest time.Time
	for _, class := range [][]*Job{q.high, q.normal} {
		for _, j := range class {
			if earliest.IsZero() || j.NotBefore.Before(earliest) {
				earliest = j.NotBefore
			}
		}
	}
	if d := earliest.Sub(now); d > 0 {
		return d
	}
	return 0
}

func (q *delayQueue) len() int {
	return len(q.high) + len(q.normal)
}

func (q *delayQueue) countByStatus(s Status) int {
	n := 0
	for _, class := range [][]*Job{q.high, q.normal} {
		for _, j := range class {
			if j.Status == s {
				n++
			}
		}
	}
	return n
}
