package worker

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/sopds/catalog/pkg/archive"
	"github.com/sopds/catalog/pkg/catalog"
	"github.com/sopds/catalog/pkg/fb2"
	"github.com/sopds/catalog/pkg/fileutils"
	"github.com/sopds/catalog/pkg/formats"
	"github.com/sopds/catalog/pkg/jobs"
	"github.com/sopds/catalog/pkg/models"
	"golang.org/x/sync/errgroup"
)

// scan walks the library root once. Per-file failures are counted and
// logged; only an unusable root aborts the run.
func (w *Worker) scan(ctx context.Context, trigger string) error {
	started := time.Now()
	w.stats.reset(started)

	id, err := uuid.NewRandom()
	if err != nil {
		return errors.WithStack(err)
	}
	root := w.config.LibraryRootPath
	rootData := logger.Data{"trigger": trigger, "root": root, "process_id": processID}

	data := &models.JobScanData{Trigger: trigger, RootPath: root}
	job := &models.Job{
		Type:       models.JobTypeScan,
		Status:     models.JobStatusInProgress,
		DataParsed: data,
		ProcessID:  &processID,
	}
	if err := w.jobService.CreateJob(ctx, job); err != nil {
		w.log.Err(err).Error("create scan job error", rootData)
		job = nil
	} else {
		rootData["job_id"] = job.ID
	}

	log := w.log.ID(id.String()).Root(rootData)
	ctx = log.WithContext(ctx)

	log.Info("scan started")
	scanErr := w.walk(ctx, root)

	finished := time.Now()
	w.stats.finish(finished)
	stats := w.stats.snapshot()

	if job != nil {
		job.Status = models.JobStatusCompleted
		data.Statistics = stats
		if scanErr != nil {
			job.Status = models.JobStatusFailed
			data.Error = scanErr.Error()
		}
		err := w.jobService.UpdateJob(ctx, job, jobs.UpdateJobOptions{Columns: []string{"status", "data"}})
		if err != nil {
			log.Err(err).Error("update scan job error")
		}
	}

	if scanErr != nil {
		log.Err(scanErr).Error("scan aborted")
		return scanErr
	}

	log.Info("scan finished", logger.Data{
		"processed":   stats.Processed,
		"added":       stats.Added,
		"updated":     stats.Updated,
		"errors":      stats.Errors,
		"duration_ms": finished.Sub(started).Milliseconds(),
	})
	return nil
}

// ensureRoot creates a missing library root. It's tried once per run.
func ensureRoot(root string) error {
	info, err := os.Stat(root)
	if err == nil {
		if !info.IsDir() {
			return errors.Errorf("library root %s is not a directory", root)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.WithStack(err)
	}
	return errors.Wrap(os.MkdirAll(root, 0o755), "create library root")
}

func (w *Worker) walk(ctx context.Context, root string) error {
	log := logger.FromContext(ctx)

	if err := ensureRoot(root); err != nil {
		return err
	}

	g := &errgroup.Group{}
	g.SetLimit(max(w.config.ScanWorkers, 1))

	for f := range fileutils.Walk(root) {
		if f.Err != nil {
			w.stats.errors.Add(1)
			log.Err(f.Err).Warn("file access error", logger.Data{"path": f.RelPath})
			continue
		}
		if fileutils.ExceedsMaxSize(f.Size, w.config.MaxFileSizeMB) {
			log.Debug("skipping oversized file", logger.Data{"path": f.RelPath, "size_mb": fileutils.SizeMB(f.Size)})
			continue
		}

		switch w.classifier.Classify(filepath.Base(f.Path)) {
		case formats.KindArchive:
			g.Go(func() error {
				w.scanArchive(ctx, f)
				return nil
			})
		case formats.KindSingle:
			g.Go(func() error {
				w.scanFile(ctx, f)
				return nil
			})
		case formats.KindIgnored:
		}
	}

	return errors.WithStack(g.Wait())
}

func (w *Worker) scanFile(ctx context.Context, f fileutils.File) {
	w.stats.processed.Add(1)

	file := catalog.File{
		RelPath:  f.RelPath,
		Filename: filepath.Base(f.Path),
		Format:   formats.Extension(filepath.Base(f.Path)),
		Size:     f.Size,
	}
	w.catalogue(ctx, file, func() (io.ReadCloser, error) {
		return os.Open(f.Path)
	})
}

func (w *Worker) scanArchive(ctx context.Context, f fileutils.File) {
	log := logger.FromContext(ctx).Data(logger.Data{"path": f.RelPath})

	err := archive.With(f.Path, w.config.ZipEncoding, func(a *archive.Archive) error {
		for _, entry := range a.Entries(w.classifier.IsSupportedEntry) {
			w.stats.processed.Add(1)

			file := catalog.File{
				RelPath:  archive.EntryPath(f.RelPath, entry.Name),
				Filename: path.Base(entry.Name),
				Format:   formats.Extension(path.Base(entry.Name)),
				Size:     int64(entry.Size),
			}
			w.catalogue(ctx, file, entry.Open)
		}
		return nil
	})
	if err != nil {
		w.stats.errors.Add(1)
		log.Err(err).Warn("archive open error")
	}
}

// catalogue runs the idempotency pre-check, extracts metadata for FB2
// documents and hands the result to the reconciler.
func (w *Worker) catalogue(ctx context.Context, file catalog.File, open func() (io.ReadCloser, error)) {
	log := logger.FromContext(ctx).Data(logger.Data{"path": file.RelPath})

	exists, err := w.reconciler.Exists(ctx, file.RelPath)
	if err != nil {
		w.stats.errors.Add(1)
		log.Err(err).Error("book lookup error")
		return
	}
	if exists {
		log.Debug("book already exists")
		return
	}

	var meta *fb2.Metadata
	if file.Format == formats.FB2Extension {
		meta, err = extract(ctx, open)
		if err != nil && !errors.Is(err, fb2.ErrNoMetadata) {
			w.stats.errors.Add(1)
			log.Err(err).Warn("metadata extraction error")
		}
	}

	added, err := w.reconciler.Reconcile(ctx, file, meta)
	if err != nil {
		w.stats.errors.Add(1)
		log.Err(err).Error("catalogue error")
		return
	}
	if added {
		w.stats.added.Add(1)
	}
}

func extract(ctx context.Context, open func() (io.ReadCloser, error)) (*fb2.Metadata, error) {
	rc, err := open()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rc.Close()

	meta, err := fb2.Parse(ctx, rc)
	if err != nil {
		return nil, err
	}
	return meta, nil
}
