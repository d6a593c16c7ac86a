package dispatch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Stryxus/WebTools/internal/assetkind"
	"github.com/Stryxus/WebTools/internal/logging"
	"github.com/Stryxus/WebTools/internal/metrics"
	"github.com/Stryxus/WebTools/internal/pathmap"
	"github.com/Stryxus/WebTools/internal/report"
	"github.com/Stryxus/WebTools/internal/workers"
)

// Dispatcher runs the pipeline in two phases: a backfill pass over every
// existing source file, then a live watch that reacts to filesystem events.
// Live mode only starts once the backfill has drained.
type Dispatcher struct {
	sourceRoot  string
	mapper      *pathmap.Mapper
	strategists map[assetkind.Kind]Strategist

	ready  atomic.Bool
	liveWG sync.WaitGroup
}

// New creates a Dispatcher over the given source root.
func New(sourceRoot string, mapper *pathmap.Mapper, strategists map[assetkind.Kind]Strategist) *Dispatcher {
	return &Dispatcher{
		sourceRoot:  sourceRoot,
		mapper:      mapper,
		strategists: strategists,
	}
}

// Ready reports whether the backfill has completed and live watching is
// active. The health endpoint exposes this.
func (d *Dispatcher) Ready() bool {
	return d.ready.Load()
}

// Run executes the backfill and then watches until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	if err := d.backfill(ctx); err != nil {
		return err
	}
	return d.watch(ctx)
}

// backfill walks the source tree, collects every processable file and runs
// the jobs through a fixed-size worker pool.
func (d *Dispatcher) backfill(ctx context.Context) error {
	metrics.BackfillRunning.Set(1)
	defer metrics.BackfillRunning.Set(0)

	var files []string
	err := filepath.WalkDir(d.sourceRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && assetkind.IsWatched(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan source tree: %w", err)
	}
	if len(files) == 0 {
		logging.Info("Backfill found nothing to process")
		return ctx.Err()
	}

	count := workers.ForMixed(len(files))
	logging.Info("Backfill processing %d files with %d workers", len(files), count)
	started := time.Now()

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for input := range jobs {
				d.process(ctx, input)
				metrics.BackfillFilesTotal.Inc()
			}
		}()
	}

feed:
	for _, f := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- f:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	logging.Info("Backfill complete in %s", time.Since(started).Round(time.Millisecond))
	return nil
}

// watch subscribes to the source tree recursively and dispatches every
// relevant event. Each live job runs in its own goroutine; watcher events
// must never wait behind a slow transcode.
func (d *Dispatcher) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, d.sourceRoot); err != nil {
		return fmt.Errorf("subscribe to source tree: %w", err)
	}

	d.ready.Store(true)
	logging.Info("Watching %s for changes", d.sourceRoot)

	for {
		select {
		case <-ctx.Done():
			d.liveWG.Wait()
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			d.handleEvent(ctx, watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("Watcher error: %v", err)
			metrics.WatcherErrorsTotal.Inc()
		}
	}
}

func (d *Dispatcher) handleEvent(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event) {
	switch {
	case event.Op.Has(fsnotify.Create):
		metrics.WatcherEventsTotal.WithLabelValues("create").Inc()
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addRecursive(watcher, event.Name); err != nil {
				logging.Warn("Could not watch new directory %s: %v", event.Name, err)
				return
			}
			d.dispatchExisting(ctx, event.Name)
			return
		}
		d.spawn(ctx, event.Name)
	case event.Op.Has(fsnotify.Write):
		metrics.WatcherEventsTotal.WithLabelValues("write").Inc()
		d.spawn(ctx, event.Name)
	case event.Op.Has(fsnotify.Remove):
		metrics.WatcherEventsTotal.WithLabelValues("remove").Inc()
		if assetkind.IsWatched(event.Name) {
			logging.Info("Source removed: %s (output left in place)", d.mapper.Rel(event.Name))
		}
	case event.Op.Has(fsnotify.Rename):
		metrics.WatcherEventsTotal.WithLabelValues("rename").Inc()
		if assetkind.IsWatched(event.Name) {
			logging.Info("Source renamed away: %s (output left in place)", d.mapper.Rel(event.Name))
		}
	}
}

func (d *Dispatcher) spawn(ctx context.Context, path string) {
	if !assetkind.IsWatched(path) {
		return
	}
	d.liveWG.Add(1)
	go func() {
		defer d.liveWG.Done()
		d.process(ctx, path)
	}()
}

// dispatchExisting processes files already present under a newly created
// directory. A bulk copy or archive extraction writes its files before the
// watch lands, so those writes never arrive as events of their own.
func (d *Dispatcher) dispatchExisting(ctx context.Context, root string) {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			d.spawn(ctx, path)
		}
		return nil
	})
	if err != nil {
		logging.Warn("Could not scan new directory %s: %v", root, err)
	}
}

// process runs one input through its pipeline end to end. Failures are
// logged and counted but never stop the dispatcher; a partial output left by
// a failed transcode is removed so the output tree holds only complete files.
func (d *Dispatcher) process(ctx context.Context, input string) {
	kind := assetkind.Classify(input)
	strat, ok := d.strategists[kind]
	if !ok {
		return
	}
	rel := d.mapper.Rel(input)
	started := time.Now()

	target, err := strat.TargetPath(input)
	if err != nil {
		logging.Error("Failed to map %s: %v", rel, err)
		metrics.JobsTotal.WithLabelValues(string(kind), "error").Inc()
		return
	}
	if err := d.mapper.Prepare(target); err != nil {
		logging.Error("Failed to prepare output for %s: %v", rel, err)
		metrics.JobsTotal.WithLabelValues(string(kind), "error").Inc()
		return
	}

	if err := strat.Transcode(ctx, input, target); err != nil {
		logging.Error("Failed to process %s: %v", rel, err)
		if rmErr := os.Remove(target); rmErr != nil && !os.IsNotExist(rmErr) {
			logging.Warn("Could not remove partial output %s: %v", target, rmErr)
		}
		metrics.JobsTotal.WithLabelValues(string(kind), "error").Inc()
		return
	}

	elapsed := time.Since(started)
	metrics.JobsTotal.WithLabelValues(string(kind), "success").Inc()
	metrics.JobDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())

	sizes := report.Compare(input, target)
	if sizes.Valid {
		metrics.InputBytesTotal.WithLabelValues(string(kind)).Add(float64(sizes.Before))
		metrics.OutputBytesTotal.WithLabelValues(string(kind)).Add(float64(sizes.After))
	}

	if strat.Reports() {
		logging.Info("Processed %s in %s: %s", rel, elapsed.Round(time.Millisecond), sizes.Render())
	} else {
		logging.Info("Copied %s", rel)
	}
}

// addRecursive subscribes the watcher to a directory and all directories
// below it. fsnotify watches are not recursive on their own.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
