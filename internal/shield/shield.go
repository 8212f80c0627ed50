// Package shield records which applications are blocked and, when sweeping is
// enabled, terminates blocked applications that are already running.
//
// The block state lives in a small JSON file so an external enforcer (a
// launcher wrapper, a root daemon, a browser extension host) can honor it
// without talking to frog directly.
package shield

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/eatthefrog/internal/focus"
	"github.com/julianstephens/eatthefrog/internal/logger"
)

// StateFileName is the shield file inside the config directory.
const StateFileName = "shield.json"

// State is the on-disk shield record.
type State struct {
	Blocking  bool      `json:"blocking"`
	Apps      []string  `json:"apps"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FileShield implements focus.Shield on top of a state file.
type FileShield struct {
	path    string
	sweeper *Sweeper
	now     func() time.Time
}

var (
	_ focus.Shield       = (*FileShield)(nil)
	_ focus.ShieldReader = (*FileShield)(nil)
)

// NewFileShield returns a shield writing to path. A nil sweeper disables
// terminating running apps.
func NewFileShield(path string, sweeper *Sweeper) *FileShield {
	return &FileShield{path: path, sweeper: sweeper, now: time.Now}
}

// Path returns the state file location.
func (s *FileShield) Path() string { return s.path }

// Block marks apps as blocked and sweeps running instances.
func (s *FileShield) Block(apps []string) error {
	if err := s.write(State{Blocking: true, Apps: apps}); err != nil {
		return err
	}
	if s.sweeper != nil {
		if _, err := s.sweeper.Sweep(apps); err != nil {
			logger.Warn("sweeping blocked apps failed", "error", err)
		}
	}
	return nil
}

// Unblock clears the block. The app list is kept for reference.
func (s *FileShield) Unblock() error {
	prev, err := s.Read()
	if err != nil {
		prev = State{}
	}
	return s.write(State{Blocking: false, Apps: prev.Apps})
}

// Blocking reports whether the state file currently holds a block.
func (s *FileShield) Blocking() (bool, error) {
	st, err := s.Read()
	if err != nil {
		return false, err
	}
	return st.Blocking, nil
}

// Enforce re-reads the state file and sweeps if blocking. The daemon calls
// it on an interval so apps launched mid-block get closed.
func (s *FileShield) Enforce() (int, error) {
	if s.sweeper == nil {
		return 0, nil
	}
	st, err := s.Read()
	if err != nil {
		return 0, err
	}
	if !st.Blocking {
		return 0, nil
	}
	return s.sweeper.Sweep(st.Apps)
}

// Read returns the current state. A missing file means nothing is blocked.
func (s *FileShield) Read() (State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return State{Apps: []string{}}, nil
	}
	if err != nil {
		return State{}, wrapPermission(fmt.Errorf("reading shield state: %w", err))
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parsing shield state: %w", err)
	}
	if st.Apps == nil {
		st.Apps = []string{}
	}
	return st, nil
}

// write replaces the state file atomically via rename.
func (s *FileShield) write(st State) error {
	if st.Apps == nil {
		st.Apps = []string{}
	}
	st.UpdatedAt = s.now().UTC()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return wrapPermission(fmt.Errorf("creating shield directory: %w", err))
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".shield-*")
	if err != nil {
		return wrapPermission(fmt.Errorf("writing shield state: %w", err))
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing shield state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing shield state: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o640); err != nil {
		return wrapPermission(err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return wrapPermission(fmt.Errorf("writing shield state: %w", err))
	}
	return nil
}

func wrapPermission(err error) error {
	if errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %v", focus.ErrAuthorizationDenied, err)
	}
	return err
}
