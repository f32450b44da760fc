// README: Email dispatch queue; single worker, bounded retries, quadratic backoff.
package maildispatch

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"taxibordeaux/internal/observability"
	"taxibordeaux/internal/types"
)

// Provider is the external email gateway.
type Provider interface {
	Send(ctx context.Context, m Outbound) (messageID string, err error)
}

const sendTimeout = 30 * time.Second

// Service queues outbound transactional email and drains it with a single
// worker: sends are serialized to respect the provider's rate limits and to
// keep delivery order predictable. Delivery failures never reach the
// enqueuing caller; email is a best-effort side channel and outcomes are
// observable through Stats and the audit store.
type Service struct {
	provider   Provider
	store      *Store
	logger     *slog.Logger
	from       string
	opsMailbox string

	maxAttempts int
	spacing     time.Duration

	mu         sync.Mutex
	queue      delayQueue
	processing bool
	sent       int64
	failed     int64

	// Injected for deterministic tests.
	nowFn   func() time.Time
	sleepFn func(time.Duration)
}

// NewService wires the queue. store may be nil to disable the delivery audit.
func NewService(provider Provider, store *Store, from, opsMailbox string, maxAttempts int, spacing time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider:    provider,
		store:       store,
		logger:      logger,
		from:        from,
		opsMailbox:  opsMailbox,
		maxAttempts: maxAttempts,
		spacing:     spacing,
		nowFn:       time.Now,
		sleepFn:     time.Sleep,
	}
}

// Enqueue accepts a message and returns immediately with the job id. The
// worker is started if it is not already draining; enqueueing concurrently
// never spawns a second worker.
func (s *Service) Enqueue(msg Message, priority Priority) types.ID {
	if priority != PriorityHigh {
		priority = PriorityNormal
	}
	now := s.nowFn()
	job := &Job{
		ID:          newID(),
		Message:     msg,
		Priority:    priority,
		MaxAttempts: s.maxAttempts,
		Status:      StatusQueued,
		CreatedAt:   now,
		NotBefore:   now,
	}

	s.mu.Lock()
	s.queue.push(job)
	observability.EmailQueueDepth.Set(float64(s.queue.len()))
	start := !s.processing
	if start {
		s.processing = true
	}
	s.mu.Unlock()

	observability.EmailsEnqueued.WithLabelValues(string(priority)).Inc()
	s.logger.Debug("email job enqueued", "job_id", job.ID, "priority", priority, "subject", msg.Subject)

	if start {
		go s.drain()
	}
	return job.ID
}

// Stats reports the queue state for observability endpoints.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Queued:     s.queue.countByStatus(StatusQueued),
		Retrying:   s.queue.countByStatus(StatusRetry),
		Sent:       s.sent,
		Failed:     s.failed,
		Depth:      s.queue.len(),
		Processing: s.processing,
	}
}

func (s *Service) drain() {
	for {
		s.mu.Lock()
		if s.queue.len() == 0 {
			s.processing = false
			observability.EmailQueueDepth.Set(0)
			s.mu.Unlock()
			return
		}
		now := s.nowFn()
		job := s.queue.popEligible(now)
		if job == nil {
			wait := s.queue.nextWake(now)
			s.mu.Unlock()
			s.sleepFn(wait)
			continue
		}
		observability.EmailQueueDepth.Set(float64(s.queue.len()))
		s.mu.Unlock()

		s.attempt(job)
		s.sleepFn(s.spacing)
	}
}

func (s *Service) attempt(job *Job) {
	out := Outbound{
		From:    s.from,
		To:      append(append([]string{}, job.Message.To...), s.opsMailbox),
		Subject: job.Message.Subject,
		HTML:    job.Message.HTML,
		Text:    job.Message.Text,
	}
	if out.Text == "" {
		out.Text = htmlToText(out.HTML)
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	messageID, err := s.provider.Send(ctx, out)
	now := s.nowFn()
	job.Attempts++
	job.LastAttemptAt = now

	if err == nil {
		job.Status = StatusSent
		s.mu.Lock()
		s.sent++
		s.mu.Unlock()
		observability.EmailsSent.Inc()
		s.logger.Info("email delivered", "job_id", job.ID, "message_id", messageID, "attempts", job.Attempts)
		s.audit(job, messageID)
		return
	}

	job.LastError = err.Error()
	if job.Attempts >= job.MaxAttempts {
		// Terminal: the job is dropped, never re-enqueued.
		job.Status = StatusFailed
		s.mu.Lock()
		s.failed++
		s.mu.Unlock()
		observability.EmailsFailed.Inc()
		s.logger.Error("email delivery failed permanently",
			"job_id", job.ID, "attempts", job.Attempts, "err", err)
		s.audit(job, "")
		return
	}

	backoff := time.Duration(job.Attempts*job.Attempts) * time.Second
	job.Status = StatusRetry
	job.NotBefore = now.Add(backoff)
	s.logger.Warn("email delivery failed, scheduling retry",
		"job_id", job.ID, "attempt", job.Attempts, "backoff", backoff, "err", err)

	s.mu.Lock()
	s.queue.push(job)
	observability.EmailQueueDepth.Set(float64(s.queue.len()))
	s.mu.Unlock()
}

func (s *Service) audit(job *Job, messageID string) {
	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.RecordOutcome(ctx, job, messageID); err != nil {
		s.logger.Warn("delivery audit write failed", "job_id", job.ID, "err", err)
	}
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
