package storage

import "testing"

func TestDetectBackend(t *testing.T) {
	tests := map[string]Backend{
		"~/.config/frog/frog.db":               BackendSQLite,
		"/tmp/frog.db":                         BackendSQLite,
		"postgres://frog@localhost/frog":       BackendPostgres,
		"POSTGRESQL://frog@localhost/frog":     BackendPostgres,
		"redis://localhost:6379/0":             BackendRedis,
		"rediss://cache.example.com:6380/2":    BackendRedis,
		"  redis://localhost:6379/0  ":         BackendRedis,
		"host=localhost user=frog dbname=frog": BackendSQLite,
	}
	for target, want := range tests {
		if got := DetectBackend(target); got != want {
			t.Errorf("DetectBackend(%q) = %q, want %q", target, got, want)
		}
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"redis://:secret@localhost:6379/0", "redis://:xxxxx@localhost:6379/0"},
		{"postgres://frog:hunter2@db/frog", "postgres://frog:xxxxx@db/frog"},
		{"postgres://frog@db/frog", "postgres://frog@db/frog"},
		{"/tmp/frog.db", "/tmp/frog.db"},
	}
	for _, tt := range tests {
		if got := Redact(tt.in); got != tt.want {
			t.Errorf("Redact(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
