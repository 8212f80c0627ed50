package shield

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/eatthefrog/internal/logger"
)

var (
	processesFunc = ps.Processes
	killFunc      = func(pid int) error {
		p, err := os.FindProcess(pid)
		if err != nil {
			return err
		}
		return p.Kill()
	}
)

// Sweeper terminates running processes whose executable matches a blocked app.
type Sweeper struct {
	self int
	// DryRun logs matches without terminating them.
	DryRun bool
}

// NewSweeper returns a sweeper that never touches the current process.
func NewSweeper(dryRun bool) *Sweeper {
	return &Sweeper{self: os.Getpid(), DryRun: dryRun}
}

// Sweep terminates matching processes and returns how many it hit.
// Permission failures are collected and returned after the pass.
func (s *Sweeper) Sweep(apps []string) (int, error) {
	if len(apps) == 0 {
		return 0, nil
	}

	procs, err := processesFunc()
	if err != nil {
		return 0, fmt.Errorf("listing processes: %w", err)
	}

	var errs []error
	hits := 0
	for _, p := range procs {
		if p.Pid() == s.self || !Matches(apps, p.Executable()) {
			continue
		}
		if s.DryRun {
			logger.Info("would terminate blocked app", "pid", p.Pid(), "executable", p.Executable())
			hits++
			continue
		}
		if err := killFunc(p.Pid()); err != nil {
			errs = append(errs, wrapPermission(fmt.Errorf("terminating %s (%d): %w", p.Executable(), p.Pid(), err)))
			continue
		}
		logger.Info("terminated blocked app", "pid", p.Pid(), "executable", p.Executable())
		hits++
	}
	return hits, errors.Join(errs...)
}

// Matches reports whether executable belongs to one of apps. An app matches
// its exact executable name or the last dot-separated part of a bundle-style
// identifier ("com.tinyspeck.slack" matches "slack"), case-insensitively.
func Matches(apps []string, executable string) bool {
	exe := strings.ToLower(strings.TrimSuffix(filepath.Base(executable), ".exe"))
	if exe == "" {
		return false
	}
	for _, app := range apps {
		app = strings.ToLower(strings.TrimSpace(app))
		if app == "" {
			continue
		}
		if app == exe {
			return true
		}
		if i := strings.LastIndex(app, "."); i >= 0 && app[i+1:] == exe {
			return true
		}
	}
	return false
}
