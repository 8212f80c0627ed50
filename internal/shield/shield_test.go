package shield

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/eatthefrog/internal/focus"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubProcesses(t *testing.T, procs []ps.Process, killErr error) *[]int {
	t.Helper()
	oldList, oldKill := processesFunc, killFunc
	t.Cleanup(func() { processesFunc, killFunc = oldList, oldKill })

	var killed []int
	processesFunc = func() ([]ps.Process, error) { return procs, nil }
	killFunc = func(pid int) error {
		if killErr != nil {
			return killErr
		}
		killed = append(killed, pid)
		return nil
	}
	return &killed
}

func TestBlockAndUnblock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", StateFileName)
	s := NewFileShield(path, nil)

	st, err := s.Read()
	if err != nil {
		t.Fatalf("Read on missing file failed: %v", err)
	}
	if st.Blocking {
		t.Error("missing state file should not be blocking")
	}

	if err := s.Block([]string{"com.tinyspeck.slack", "discord"}); err != nil {
		t.Fatalf("Block failed: %v", err)
	}
	st, err = s.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !st.Blocking || len(st.Apps) != 2 {
		t.Errorf("unexpected state after block: %+v", st)
	}
	if st.UpdatedAt.IsZero() {
		t.Error("expected updated_at to be set")
	}

	// Idempotent.
	if err := s.Block([]string{"com.tinyspeck.slack", "discord"}); err != nil {
		t.Fatalf("second Block failed: %v", err)
	}

	if blocking, err := s.Blocking(); err != nil || !blocking {
		t.Errorf("Blocking() = %v, %v; want true", blocking, err)
	}

	if err := s.Unblock(); err != nil {
		t.Fatalf("Unblock failed: %v", err)
	}
	st, err = s.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if st.Blocking {
		t.Error("expected blocking to be cleared")
	}
	if len(st.Apps) != 2 {
		t.Errorf("expected app list kept after unblock, got %v", st.Apps)
	}

	if err := s.Unblock(); err != nil {
		t.Fatalf("second Unblock failed: %v", err)
	}
}

func TestReadCorruptState(t *testing.T) {
	path := filepath.Join(t.TempDir(), StateFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o640); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileShield(path, nil).Read(); err == nil {
		t.Error("expected parse error")
	}
}

func TestBlockPermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforced")
	}
	dir := filepath.Join(t.TempDir(), "locked")
	if err := os.MkdirAll(dir, 0o500); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0o700) })

	err := NewFileShield(filepath.Join(dir, StateFileName), nil).Block([]string{"slack"})
	if !errors.Is(err, focus.ErrAuthorizationDenied) {
		t.Errorf("expected ErrAuthorizationDenied, got %v", err)
	}
}

func TestBlockSweepsRunningApps(t *testing.T) {
	killed := stubProcesses(t, []ps.Process{
		&mockProcess{pid: 100, executable: "slack"},
		&mockProcess{pid: 101, executable: "bash"},
		&mockProcess{pid: 102, executable: "Discord.exe"},
	}, nil)

	sweeper := &Sweeper{self: 1}
	s := NewFileShield(filepath.Join(t.TempDir(), StateFileName), sweeper)
	if err := s.Block([]string{"com.tinyspeck.slack", "discord"}); err != nil {
		t.Fatalf("Block failed: %v", err)
	}

	if len(*killed) != 2 || (*killed)[0] != 100 || (*killed)[1] != 102 {
		t.Errorf("expected pids 100 and 102 killed, got %v", *killed)
	}
}

func TestEnforce(t *testing.T) {
	killed := stubProcesses(t, []ps.Process{&mockProcess{pid: 200, executable: "slack"}}, nil)

	s := NewFileShield(filepath.Join(t.TempDir(), StateFileName), &Sweeper{self: 1})
	n, err := s.Enforce()
	if err != nil || n != 0 {
		t.Fatalf("expected no sweep without a block, got n=%d err=%v", n, err)
	}

	if err := s.Block([]string{"slack"}); err != nil {
		t.Fatal(err)
	}
	*killed = nil

	n, err = s.Enforce()
	if err != nil {
		t.Fatalf("Enforce failed: %v", err)
	}
	if n != 1 || len(*killed) != 1 {
		t.Errorf("expected one kill, got n=%d killed=%v", n, *killed)
	}

	if err := s.Unblock(); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Enforce(); n != 0 {
		t.Errorf("expected no sweep after unblock, got %d", n)
	}
}

func TestSweepSkipsSelfAndDryRun(t *testing.T) {
	killed := stubProcesses(t, []ps.Process{
		&mockProcess{pid: 1, executable: "frog"},
		&mockProcess{pid: 300, executable: "frog"},
	}, nil)

	dry := &Sweeper{self: 1, DryRun: true}
	n, err := dry.Sweep([]string{"frog"})
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if n != 1 || len(*killed) != 0 {
		t.Errorf("dry run should count without killing, got n=%d killed=%v", n, *killed)
	}
}

func TestSweepPermissionError(t *testing.T) {
	stubProcesses(t, []ps.Process{&mockProcess{pid: 400, executable: "slack"}}, os.ErrPermission)

	n, err := (&Sweeper{self: 1}).Sweep([]string{"slack"})
	if n != 0 {
		t.Errorf("expected no hits, got %d", n)
	}
	if !errors.Is(err, focus.ErrAuthorizationDenied) {
		t.Errorf("expected ErrAuthorizationDenied, got %v", err)
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		apps []string
		exe  string
		want bool
	}{
		{[]string{"slack"}, "slack", true},
		{[]string{"Slack"}, "/Applications/Slack.app/Contents/MacOS/slack", true},
		{[]string{"com.tinyspeck.slack"}, "slack", true},
		{[]string{"discord"}, "Discord.exe", true},
		{[]string{"com.tinyspeck.slack"}, "slackbot", false},
		{[]string{""}, "slack", false},
		{[]string{"slack"}, "", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.apps, tt.exe); got != tt.want {
			t.Errorf("Matches(%v, %q) = %v, want %v", tt.apps, tt.exe, got, tt.want)
		}
	}
}
