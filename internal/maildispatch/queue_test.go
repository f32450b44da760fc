package maildispatch

import (
	"testing"
	"time"

	"taxibordeaux/internal/types"
)

func job(id string, p Priority, notBefore time.Time) *Job {
	return &Job{ID: types.ID("job-" + id), Priority: p, NotBefore: notBefore}
}

func TestDelayQueuePriorityPreemption(t *testing.T) {
	now := time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)
	var q delayQueue
	q.push(job("n1", PriorityNormal, now))
	q.push(job("n2", PriorityNormal, now))
	q.push(job("h1", PriorityHigh, now))

	got := q.popEligible(now)
	if got == nil || got.ID != "job-h1" {
		t.Fatalf("first pop = %v, want high-priority job", got)
	}
	if got := q.popEligible(now); got.ID != "job-n1" {
		t.Errorf("second pop = %s, want n1 (FIFO within class)", got.ID)
	}
	if got := q.popEligible(now); got.ID != "job-n2" {
		t.Errorf("third pop = %s, want n2", got.ID)
	}
	if q.popEligible(now) != nil {
		t.Error("empty queue should pop nil")
	}
}

func TestDelayQueueSkipsIneligible(t *testing.T) {
	now := time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)
	var q delayQueue
	q.push(job("later", PriorityNormal, now.Add(5*time.Second)))
	q.push(job("ready", PriorityNormal, now))

	if got := q.popEligible(now); got == nil || got.ID != "job-ready" {
		t.Fatalf("pop = %v, want the eligible job behind the delayed one", got)
	}
	if got := q.popEligible(now); got != nil {
		t.Fatalf("pop = %v, want nil while the retry delay runs", got)
	}
	if wake := q.nextWake(now); wake != 5*time.Second {
		t.Errorf("nextWake = %v, want 5s", wake)
	}
	if got := q.popEligible(now.Add(5 * time.Second)); got == nil || got.ID != "job-later" {
		t.Errorf("pop after delay = %v, want job-later", got)
	}
}

func TestDelayQueueNextWakeElapsed(t *testing.T) {
	now := time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)
	var q delayQueue
	q.push(job("past", PriorityNormal, now.Add(-time.Second)))
	if wake := q.nextWake(now); wake != 0 {
		t.Errorf("nextWake = %v, want 0 for an already-eligible job", wake)
	}
}
