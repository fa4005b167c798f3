package logstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// flushInterval is the background flusher's period, per §4.D.9.
const flushInterval = time.Second

// Flusher periodically persists a [Store]'s header and index arrays. It
// never crashes the owning process on a failed flush; it logs and
// retries on the next tick instead, matching §4.D.9's "never crashes the
// process on failure" requirement.
//
// Grounded on the scheduled-job pattern in ClusterCockpit-cc-backend,
// which drives periodic maintenance work with
// github.com/go-co-op/gocron/v2 rather than a hand-rolled ticker
// goroutine.
type Flusher struct {
	store     *Store
	scheduler gocron.Scheduler
	log       *slog.Logger
}

// NewFlusher builds a Flusher for store. Call [Flusher.Start] to begin
// the periodic schedule and [Flusher.Stop] to shut it down.
func NewFlusher(store *Store, log *slog.Logger) (*Flusher, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = slog.Default()
	}

	return &Flusher{store: store, scheduler: sched, log: log}, nil
}

// Start registers the periodic flush job and begins running it
// asynchronously.
func (fl *Flusher) Start() error {
	_, err := fl.scheduler.NewJob(
		gocron.DurationJob(flushInterval),
		gocron.NewTask(fl.tick),
	)
	if err != nil {
		return err
	}

	fl.scheduler.Start()

	return nil
}

// Stop waits for the scheduler to drain its current run, if any, and
// stops scheduling further flushes. ctx bounds how long to wait.
func (fl *Flusher) Stop(ctx context.Context) error {
	done := make(chan error, 1)

	go func() { done <- fl.scheduler.Shutdown() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (fl *Flusher) tick() {
	if err := fl.store.flushHeaderAndIndex(); err != nil {
		fl.log.Warn("logstore: periodic flush failed, will retry next tick", "error", err)
	}
}
