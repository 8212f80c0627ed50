package e2e

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestEndToEndWorkflow(t *testing.T) {
	// 1. Setup Environment
	// Allow overriding bin dir via env var, default to ../../bin (relative to tests/e2e)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}

	binDir := os.Getenv("FROG_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	t.Logf("Using bin dir: %s", binDir)

	cliPath := filepath.Join(binDir, "frog")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s. Build it with: go build -o bin/frog ./cmd/frog", cliPath)
	}

	// Create temp home for isolation
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".config", "frog")

	var cleanEnv []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "XDG_CONFIG_HOME=") || strings.HasPrefix(e, "FROG_") {
			continue
		}
		cleanEnv = append(cleanEnv, e)
	}
	cleanEnv = append(cleanEnv,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", filepath.Join(tempDir, ".config")),
		fmt.Sprintf("FROG_DB=%s", filepath.Join(configDir, "frog.db")),
		"FROG_NOTIFIER=log",
	)

	// 2. Initialize CLI
	t.Log("Initializing CLI...")
	runCmd(t, cliPath, cleanEnv, "init")
	runCmd(t, cliPath, cleanEnv, "apps", "add", "slack", "com.hnc.Discord")

	// 3. Start a frog and check it is counting down behind the shield
	out := runCmd(t, cliPath, cleanEnv, "start", "Write", "report", "--minutes", "10")
	expectContains(t, out, "Started \"Write report\"")

	out = runCmd(t, cliPath, cleanEnv, "status")
	expectContains(t, out, "Write report")
	expectContains(t, out, "running")
	if !readShield(t, configDir).Blocking {
		t.Fatal("expected shield to be up while the frog is running")
	}

	// 4. Give up: the time's-up notice is delivered before the process exits
	out = runCmd(t, cliPath, cleanEnv, "fail")
	expectContains(t, out, "Your timer's up!")
	runCmd(t, cliPath, cleanEnv, "ack")
	if !readShield(t, configDir).Blocking {
		t.Fatal("expected shield to stay up while the daily frog is owed")
	}

	// 5. Eat the frog
	runCmd(t, cliPath, cleanEnv, "start", "Write", "report", "-m", "5")
	out = runCmd(t, cliPath, cleanEnv, "done")
	expectContains(t, out, "Streak: 1")
	if readShield(t, configDir).Blocking {
		t.Fatal("expected shield down after the frog was eaten")
	}

	out = runCmd(t, cliPath, cleanEnv, "history", "--days", "7")
	expectContains(t, out, "1/7 frogs eaten")

	// 6. Housekeeping commands
	out = runCmd(t, cliPath, cleanEnv, "backup", "create")
	expectContains(t, out, "Backup created")
	runCmd(t, cliPath, cleanEnv, "daemon", "--once")
	runCmd(t, cliPath, cleanEnv, "doctor")
}

type shieldState struct {
	Blocking bool     `json:"blocking"`
	Apps     []string `json:"apps"`
}

func readShield(t *testing.T, configDir string) shieldState {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(configDir, "shield.json"))
	if err != nil {
		t.Fatalf("Failed to read shield state: %v", err)
	}
	var st shieldState
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("Failed to parse shield state: %v", err)
	}
	return st
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}

func expectContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, out)
	}
}
