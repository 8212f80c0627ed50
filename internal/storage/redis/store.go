// Package redis keeps frog state in Redis: the task record as a hash using
// the persisted key names, completion history as a sorted set scored by day
// start, and settings as a second hash.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/julianstephens/eatthefrog/internal/constants"
	"github.com/julianstephens/eatthefrog/internal/logger"
	"github.com/julianstephens/eatthefrog/internal/models"
	"github.com/julianstephens/eatthefrog/internal/storage"
)

const opTimeout = 5 * time.Second

// DefaultNamespace is used when the URL doesn't carry a ?namespace= parameter.
const DefaultNamespace = "default"

type Store struct {
	url       string
	namespace string
	client    *goredis.Client
}

var _ storage.Provider = (*Store)(nil)

// New returns a store for a redis:// or rediss:// URL. An optional
// namespace query parameter separates profiles sharing one server.
func New(url string) *Store {
	return &Store{url: url, namespace: DefaultNamespace}
}

// NewWithClient wraps an existing client, mainly for tests.
func NewWithClient(client *goredis.Client, namespace string) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Store{client: client, namespace: namespace}
}

func (s *Store) key(name string) string {
	return fmt.Sprintf("%s:%s:%s", constants.AppName, s.namespace, name)
}

func (s *Store) connect(ctx context.Context) error {
	if s.client == nil {
		raw, ns := splitNamespace(s.url)
		opt, err := goredis.ParseURL(raw)
		if err != nil {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		if ns != "" {
			s.namespace = ns
		}
		s.client = goredis.NewClient(opt)
	}
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

// splitNamespace pulls the namespace parameter off the URL since
// ParseURL rejects unknown options.
func splitNamespace(url string) (string, string) {
	base, query, ok := strings.Cut(url, "?")
	if !ok {
		return url, ""
	}
	var keep []string
	var ns string
	for _, part := range strings.Split(query, "&") {
		if v, found := strings.CutPrefix(part, "namespace="); found {
			ns = v
			continue
		}
		if part != "" {
			keep = append(keep, part)
		}
	}
	if len(keep) == 0 {
		return base, ns
	}
	return base + "?" + strings.Join(keep, "&"), ns
}

func (s *Store) Init() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.connect(ctx); err != nil {
		return err
	}
	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}
	logger.Info("redis store initialized", "namespace", s.namespace)
	return nil
}

func (s *Store) Load() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.connect(ctx); err != nil {
		return err
	}
	n, err := s.client.Exists(ctx, s.key("settings")).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotInitialized
	}
	return nil
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func (s *Store) GetConfigPath() string {
	return "redis"
}

func (s *Store) GetSettings() (models.Settings, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := s.client.HGetAll(ctx, s.key("settings")).Result()
	if err != nil {
		return models.Settings{}, err
	}
	if len(data) == 0 {
		return models.Settings{}, errors.New("settings not found")
	}
	return models.MapToSettings(data)
}

func (s *Store) SaveSettings(settings models.Settings) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	return s.client.HSet(ctx, s.key("settings"), toArgs(models.SettingsToMap(settings))).Err()
}

func (s *Store) LoadRecord() (models.Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := s.client.HGetAll(ctx, s.key("task")).Result()
	if err != nil {
		return models.Record{}, fmt.Errorf("reading task state: %w", err)
	}
	rec, err := models.MapToRecord(data)
	if err != nil {
		return models.Record{}, err
	}

	entries, err := s.client.ZRangeWithScores(ctx, s.key(constants.KeyTaskCompletionHistory), 0, -1).Result()
	if err != nil {
		return models.Record{}, fmt.Errorf("reading completions: %w", err)
	}
	for _, z := range entries {
		rec.History = append(rec.History, time.Unix(int64(z.Score), 0))
	}
	return rec, nil
}

// SaveRecord replaces the record atomically in a MULTI/EXEC block.
func (s *Store) SaveRecord(rec models.Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	historyKey := s.key(constants.KeyTaskCompletionHistory)
	members := make([]goredis.Z, 0, len(rec.History))
	for _, day := range rec.History {
		members = append(members, goredis.Z{
			Score:  float64(day.Unix()),
			Member: day.Format(constants.DateFormat),
		})
	}

	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, s.key("task"), toArgs(models.RecordToMap(rec)))
		pipe.Del(ctx, historyKey)
		if len(members) > 0 {
			pipe.ZAdd(ctx, historyKey, members...)
		}
		return nil
	})
	return err
}

func toArgs(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
