// Package worker runs library scans. At most one scan is active per process;
// scans are started on startup, on a cron schedule or on request.
package worker

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/robinjoseph08/golib/logger"
	"github.com/sopds/catalog/pkg/catalog"
	"github.com/sopds/catalog/pkg/config"
	"github.com/sopds/catalog/pkg/formats"
	"github.com/sopds/catalog/pkg/jobs"
	"github.com/sopds/catalog/pkg/models"
	"github.com/uptrace/bun"
)

// ErrScanInProgress is returned when a scan is requested while one is running.
var ErrScanInProgress = errors.New("scan already in progress")

var processID = randStringBytes(8)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type Worker struct {
	config *config.Config
	log    logger.Logger

	reconciler *catalog.Reconciler
	classifier *formats.Classifier
	jobService *jobs.Service

	scanning atomic.Bool
	stats    statistics
	running  sync.WaitGroup
	cron     *cron.Cron
}

func New(cfg *config.Config, db *bun.DB) *Worker {
	return &Worker{
		config: cfg,
		log:    logger.New(),

		reconciler: catalog.NewReconciler(catalog.NewStore(db)),
		classifier: formats.NewClassifier(cfg.SupportedFormats, cfg.ZipScanEnabled),
		jobService: jobs.NewService(db),
	}
}

// Start fails jobs abandoned by a previous process, schedules periodic scans
// and kicks off the startup scan when enabled.
func (w *Worker) Start() error {
	ctx := w.log.WithContext(context.Background())

	n, err := w.jobService.FailAbandonedJobs(ctx, processID)
	if err != nil {
		return errors.WithStack(err)
	}
	if n > 0 {
		w.log.Warn("marked abandoned scan jobs as failed", logger.Data{"count": n})
	}

	if w.config.ScanCron != "" {
		w.cron = cron.New(cron.WithParser(cronParser), cron.WithLogger(cronLogger{w.log}))
		_, err := w.cron.AddFunc(w.config.ScanCron, func() {
			_ = w.TriggerScan(models.ScanTriggerSchedule)
		})
		if err != nil {
			return errors.Wrapf(err, "invalid scan cron %q", w.config.ScanCron)
		}
		w.cron.Start()
		w.log.Info("scheduled scans", logger.Data{"cron": w.config.ScanCron})
	}

	if w.config.ScanOnStartup {
		_ = w.TriggerScan(models.ScanTriggerStartup)
	}

	return nil
}

// Shutdown stops scheduling and waits for a running scan to finish.
func (w *Worker) Shutdown() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
	w.running.Wait()
}

// TriggerScan starts a scan in the background and returns immediately.
// ErrScanInProgress is returned if a scan is already running.
func (w *Worker) TriggerScan(trigger string) error {
	if !w.acquire(trigger) {
		return ErrScanInProgress
	}

	w.running.Add(1)
	go func() {
		defer w.running.Done()
		defer w.release()
		_ = w.scan(context.Background(), trigger)
	}()
	return nil
}

// RunScan scans synchronously and returns the final statistics.
func (w *Worker) RunScan(ctx context.Context, trigger string) (models.ScanStatistics, error) {
	if !w.acquire(trigger) {
		return models.ScanStatistics{}, ErrScanInProgress
	}
	defer w.release()

	err := w.scan(ctx, trigger)
	return w.stats.snapshot(), err
}

func (w *Worker) IsScanning() bool {
	return w.scanning.Load()
}

// Statistics returns the counters of the running scan, or of the last one
// when idle.
func (w *Worker) Statistics() models.ScanStatistics {
	return w.stats.snapshot()
}

func (w *Worker) acquire(trigger string) bool {
	if w.scanning.CompareAndSwap(false, true) {
		return true
	}
	w.log.Info("scan already in progress", logger.Data{"trigger": trigger})
	return false
}

func (w *Worker) release() {
	w.scanning.Store(false)
}

type statistics struct {
	processed atomic.Int64
	added     atomic.Int64
	updated   atomic.Int64
	errors    atomic.Int64

	mu         sync.RWMutex
	startedAt  *time.Time
	finishedAt *time.Time
}

func (s *statistics) reset(now time.Time) {
	s.processed.Store(0)
	s.added.Store(0)
	s.updated.Store(0)
	s.errors.Store(0)

	s.mu.Lock()
	s.startedAt = &now
	s.finishedAt = nil
	s.mu.Unlock()
}

func (s *statistics) finish(now time.Time) {
	s.mu.Lock()
	s.finishedAt = &now
	s.mu.Unlock()
}

func (s *statistics) snapshot() models.ScanStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.ScanStatistics{
		Processed:  s.processed.Load(),
		Added:      s.added.Load(),
		Updated:    s.updated.Load(),
		Errors:     s.errors.Load(),
		StartedAt:  s.startedAt,
		FinishedAt: s.finishedAt,
	}
}

// cronLogger routes cron's own logging into ours.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, kvData(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Err(err).Error("cron: "+msg, kvData(keysAndValues))
}

func kvData(keysAndValues []interface{}) logger.Data {
	data := logger.Data{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if k, ok := keysAndValues[i].(string); ok {
			data[k] = keysAndValues[i+1]
		}
	}
	return data
}

const letterBytes = "abcdef0123456789"

func randStringBytes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letterBytes[rand.IntN(len(letterBytes))]
	}
	return string(b)
}
