package system

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/eatthefrog/internal/cli"
	"github.com/julianstephens/eatthefrog/internal/clock"
	"github.com/julianstephens/eatthefrog/internal/config"
	"github.com/julianstephens/eatthefrog/internal/notifier"
	"github.com/julianstephens/eatthefrog/internal/shield"
	"github.com/julianstephens/eatthefrog/internal/storage/sqlite"
)

type noopTimer struct{}

func (noopTimer) Start(func()) {}
func (noopTimer) Stop()        {}

type recordingSender struct {
	mu     sync.Mutex
	titles []string
}

func (r *recordingSender) Send(title, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
	return nil
}

func (r *recordingSender) sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.titles...)
}

type testEnv struct {
	ctx    *cli.Context
	dbPath string
	clock  *clock.Fake
	sender *recordingSender
}

// newTestEnv returns a context over a fresh, uninitialized SQLite store.
func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "frog.db")

	cfg := config.Default()
	cfg.Database = dbPath

	sender := &recordingSender{}
	fake := clock.NewFake(now)
	store := sqlite.NewStore(dbPath)
	ctx := &cli.Context{
		Config:   cfg,
		Store:    store,
		Shield:   shield.NewFileShield(filepath.Join(dir, shield.StateFileName), nil),
		Notifier: notifier.NewScheduler(sender),
		Clock:    fake,
		Timer:    noopTimer{},
	}
	t.Cleanup(func() { _ = ctx.Close() })
	return &testEnv{ctx: ctx, dbPath: dbPath, clock: fake, sender: sender}
}

func (e *testEnv) init(t *testing.T) {
	t.Helper()
	if err := (&InitCmd{}).Run(e.ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
}
