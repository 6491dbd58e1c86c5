package notify

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Aditya-k24/AlgoPulse/internal/logger"
	"github.com/Aditya-k24/AlgoPulse/internal/worker"
)

// LocalNotifier keeps pending reminders in memory and hands due ones to
// a Sender through a worker pool. Scheduling and cancellation are cheap
// map operations; delivery happens on the pool so a slow sender never
// blocks the scheduler.
type LocalNotifier struct {
	mu       sync.Mutex
	pending  map[string]Scheduled // by handle
	pool     *worker.Pool
	sender   Sender
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	log      *logger.Logger
}

// NewLocalNotifier creates a notifier that scans for due reminders
// every interval and delivers them via sender.
func NewLocalNotifier(pool *worker.Pool, sender Sender, interval time.Duration) *LocalNotifier {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &LocalNotifier{
		pending:  make(map[string]Scheduled),
		pool:     pool,
		sender:   sender,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		log:      logger.Default().WithPrefix("notify"),
	}
}

// Start launches the dispatch loop. Stop must be called on shutdown.
func (n *LocalNotifier) Start(ctx context.Context) {
	n.log.Info("starting notification dispatcher, interval=%v", n.interval)
	go func() {
		defer close(n.done)
		ticker := time.NewTicker(n.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-n.stop:
				return
			case now := <-ticker.C:
				n.dispatchDue(ctx, now)
			}
		}
	}()
}

// Stop terminates the dispatch loop.
func (n *LocalNotifier) Stop() {
	close(n.stop)
	<-n.done
	n.log.Info("notification dispatcher stopped")
}

func (n *LocalNotifier) dispatchDue(ctx context.Context, now time.Time) {
	n.mu.Lock()
	var due []Scheduled
	for handle, s := range n.pending {
		if !s.At.After(now) {
			due = append(due, s)
			delete(n.pending, handle)
		}
	}
	n.mu.Unlock()

	if len(due) == 0 {
		return
	}
	n.log.Debug("dispatching %d due notifications", len(due))
	for _, s := range due {
		job := &deliverJob{sender: n.sender, scheduled: s}
		if !n.pool.TrySubmit(job) {
			// Best-effort: a dropped reminder is logged, never retried
			// into a full queue.
			n.log.Warn("delivery queue full, reminder dropped: tag=%s", s.Tag)
		}
	}
}

func (n *LocalNotifier) ScheduleAt(ctx context.Context, tag string, at time.Time, payload Payload) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("notify")

	handle := uuid.NewString()
	n.mu.Lock()
	n.pending[handle] = Scheduled{Handle: handle, Tag: tag, At: at, Payload: payload}
	n.mu.Unlock()

	log.Debug("scheduled notification: tag=%s, at=%s, handle=%s", tag, at.Format(time.RFC3339), handle)
	return handle, nil
}

func (n *LocalNotifier) CancelByTag(ctx context.Context, tag string) error {
	log := logger.FromContext(ctx).WithPrefix("notify")

	n.mu.Lock()
	defer n.mu.Unlock()
	canceled := 0
	for handle, s := range n.pending {
		if s.Tag == tag || strings.HasPrefix(s.Tag, tag+":") {
			delete(n.pending, handle)
			canceled++
		}
	}
	log.Debug("canceled %d notifications for tag=%s", canceled, tag)
	return nil
}

func (n *LocalNotifier) CancelAll(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("notify")

	n.mu.Lock()
	defer n.mu.Unlock()
	count := len(n.pending)
	n.pending = make(map[string]Scheduled)
	log.Info("canceled all %d pending notifications", count)
	return nil
}

func (n *LocalNotifier) ListScheduled(ctx context.Context) ([]Scheduled, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Scheduled, 0, len(n.pending))
	for _, s := range n.pending {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].At.Equal(out[j].At) {
			return out[i].At.Before(out[j].At)
		}
		return out[i].Tag < out[j].Tag
	})
	return out, nil
}

// deliverJob hands one due reminder to the sender.
type deliverJob struct {
	sender    Sender
	scheduled Scheduled
}

func (j *deliverJob) Name() string {
	return "deliver-notification:" + j.scheduled.Tag
}

func (j *deliverJob) Run(ctx context.Context) error {
	return j.sender.Send(ctx, j.scheduled)
}
