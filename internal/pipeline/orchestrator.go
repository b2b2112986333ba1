package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/wikiplain/internal/config"
	"github.com/dgallion1/wikiplain/internal/metrics"
	"github.com/dgallion1/wikiplain/internal/parser"
	"github.com/dgallion1/wikiplain/internal/plaintext"
	"github.com/dgallion1/wikiplain/internal/stats"
	"github.com/dgallion1/wikiplain/internal/wikitree"
)

// ErrStopped is returned by Submit after Stop.
var ErrStopped = errors.New("pipeline stopped")

// Orchestrator manages the document conversion pipeline.
type Orchestrator struct {
	jobs    *JobStore
	queue   chan *Job
	worker  *Worker
	stats   *stats.RenderStats
	log     *slog.Logger
	cfg     config.Config
	stopped bool
	stopMu  sync.RWMutex

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator wires the pipeline; call Start to launch workers.
func NewOrchestrator(cfg config.Config, renderer *plaintext.Renderer, st *stats.RenderStats, m *metrics.Metrics, log *slog.Logger) *Orchestrator {
	o := &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		worker: NewWorker(renderer, st, m, log, parser.Options{
			PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
		}),
		stats: st,
		log:   log,
		cfg:   cfg,
	}
	m.TrackQueueDepth(o.QueueDepth)
	return o
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.worker.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	o.stopMu.Lock()
	if o.stopped {
		o.stopMu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.stopMu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.stopMu.RLock()
	defer o.stopMu.RUnlock()
	if o.stopped {
		return ErrStopped
	}

	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Convert parses and renders an upload on the caller's goroutine. A nil
// renderer uses the configured one.
func (o *Orchestrator) Convert(data []byte, filename, title string, r *plaintext.Renderer) (Result, error) {
	return o.worker.Convert(data, filename, title, r)
}

// RenderTree renders an already decoded tree on the caller's goroutine.
func (o *Orchestrator) RenderTree(root wikitree.Node, r *plaintext.Renderer) Result {
	return o.worker.RenderTree(root, r)
}

// Stats returns the render latency tracker.
func (o *Orchestrator) Stats() *stats.RenderStats {
	return o.stats
}
