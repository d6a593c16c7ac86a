package dispatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Stryxus/WebTools/internal/assetkind"
	"github.com/Stryxus/WebTools/internal/pathmap"
)

// fakeStrategist records what it was asked to transcode and writes a token
// output so the mirror can be inspected.
type fakeStrategist struct {
	mapper  *pathmap.Mapper
	ext     string
	fail    bool
	reports bool

	mu     sync.Mutex
	inputs []string
}

func (f *fakeStrategist) TargetPath(input string) (string, error) {
	base, err := f.mapper.Output(input)
	if err != nil {
		return "", err
	}
	return base + f.ext, nil
}

func (f *fakeStrategist) Transcode(_ context.Context, input, target string) error {
	f.mu.Lock()
	f.inputs = append(f.inputs, input)
	f.mu.Unlock()

	if f.fail {
		// Leave a partial file behind, as a crashed encoder would.
		os.WriteFile(target, []byte("partial"), 0644)
		return errors.New("transcode blew up")
	}
	return os.WriteFile(target, []byte("done"), 0644)
}

func (f *fakeStrategist) Reports() bool { return f.reports }

func (f *fakeStrategist) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.inputs...)
}

func newTestDispatcher(t *testing.T, fail bool) (*Dispatcher, *fakeStrategist, string, string) {
	t.Helper()
	source := t.TempDir()
	output := t.TempDir()
	mapper := pathmap.New(source, output)
	fake := &fakeStrategist{mapper: mapper, ext: ".out", fail: fail, reports: true}

	strategists := map[assetkind.Kind]Strategist{}
	for _, kind := range []assetkind.Kind{
		assetkind.KindRaster, assetkind.KindVector, assetkind.KindAudio,
		assetkind.KindVideo, assetkind.KindFontTTF, assetkind.KindFontWOFF2,
	} {
		strategists[kind] = fake
	}
	return New(source, mapper, strategists), fake, source, output
}

func writeTestFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestBackfillProcessesMatchingFiles(t *testing.T) {
	d, fake, source, output := newTestDispatcher(t, false)
	writeTestFile(t, filepath.Join(source, "hero.png"))
	writeTestFile(t, filepath.Join(source, "icons", "menu.svg"))
	writeTestFile(t, filepath.Join(source, "notes.txt"))

	if err := d.backfill(context.Background()); err != nil {
		t.Fatalf("backfill: %v", err)
	}

	if got := len(fake.seen()); got != 2 {
		t.Errorf("processed %d files, want 2: %v", got, fake.seen())
	}
	for _, out := range []string{
		filepath.Join(output, "hero.out"),
		filepath.Join(output, "icons", "menu.out"),
	} {
		if _, err := os.Stat(out); err != nil {
			t.Errorf("expected output %s: %v", out, err)
		}
	}
	if _, err := os.Stat(filepath.Join(output, "notes.out")); !os.IsNotExist(err) {
		t.Error("ignored file produced an output")
	}
}

func TestBackfillEmptyTree(t *testing.T) {
	d, fake, _, _ := newTestDispatcher(t, false)
	if err := d.backfill(context.Background()); err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if len(fake.seen()) != 0 {
		t.Errorf("empty tree processed files: %v", fake.seen())
	}
}

func TestProcessRemovesPartialOutputOnFailure(t *testing.T) {
	d, _, source, output := newTestDispatcher(t, true)
	input := filepath.Join(source, "broken.mp4")
	writeTestFile(t, input)

	d.process(context.Background(), input)

	if _, err := os.Stat(filepath.Join(output, "broken.out")); !os.IsNotExist(err) {
		t.Error("partial output survived a failed transcode")
	}
}

func TestProcessReplacesStaleOutput(t *testing.T) {
	d, _, source, output := newTestDispatcher(t, false)
	input := filepath.Join(source, "track.flac")
	writeTestFile(t, input)
	stale := filepath.Join(output, "track.out")
	writeTestFile(t, stale)

	d.process(context.Background(), input)

	data, err := os.ReadFile(stale)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "done" {
		t.Errorf("stale output not replaced, contains %q", data)
	}
}

func TestProcessIgnoresUnknownKinds(t *testing.T) {
	d, fake, source, _ := newTestDispatcher(t, false)
	input := filepath.Join(source, "readme.md")
	writeTestFile(t, input)

	d.process(context.Background(), input)

	if len(fake.seen()) != 0 {
		t.Errorf("unknown kind reached a strategist: %v", fake.seen())
	}
}

func TestLiveWatchPicksUpNewFiles(t *testing.T) {
	d, _, source, output := newTestDispatcher(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	waitFor(t, 5*time.Second, d.Ready, "dispatcher never became ready")

	writeTestFile(t, filepath.Join(source, "late.webp"))

	out := filepath.Join(output, "late.out")
	waitFor(t, 5*time.Second, func() bool {
		_, err := os.Stat(out)
		return err == nil
	}, "live event did not produce an output")

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestCreateDirectoryDispatchesExistingFiles(t *testing.T) {
	d, fake, source, output := newTestDispatcher(t, false)

	// Populate the directory before the watcher learns about it, as a bulk
	// copy or archive extraction would.
	newDir := filepath.Join(source, "batch")
	writeTestFile(t, filepath.Join(newDir, "a.png"))
	writeTestFile(t, filepath.Join(newDir, "deep", "b.svg"))
	writeTestFile(t, filepath.Join(newDir, "notes.txt"))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatalf("fsnotify: %v", err)
	}
	defer watcher.Close()

	d.handleEvent(context.Background(), watcher, fsnotify.Event{Name: newDir, Op: fsnotify.Create})

	waitFor(t, 5*time.Second, func() bool {
		for _, out := range []string{
			filepath.Join(output, "batch", "a.out"),
			filepath.Join(output, "batch", "deep", "b.out"),
		} {
			if _, err := os.Stat(out); err != nil {
				return false
			}
		}
		return true
	}, "files inside a new directory were not dispatched")

	d.liveWG.Wait()
	if got := len(fake.seen()); got != 2 {
		t.Errorf("processed %d files, want 2: %v", got, fake.seen())
	}
	if _, err := os.Stat(filepath.Join(output, "batch", "notes.out")); !os.IsNotExist(err) {
		t.Error("ignored file inside new directory produced an output")
	}
}

func TestReadyOnlyAfterBackfill(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t, false)
	if d.Ready() {
		t.Fatal("dispatcher ready before Run")
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal(msg)
}
