package postgres

import (
	"fmt"
	"time"

	"github.com/julianstephens/eatthefrog/internal/constants"
	"github.com/julianstephens/eatthefrog/internal/models"
)

func (s *Store) GetSettings() (models.Settings, error) {
	data, err := s.readKV("settings")
	if err != nil {
		return models.Settings{}, err
	}
	if len(data) == 0 {
		return models.Settings{}, fmt.Errorf("settings not found")
	}
	return models.MapToSettings(data)
}

func (s *Store) SaveSettings(settings models.Settings) error {
	return s.upsertKV("settings", models.SettingsToMap(settings))
}

func (s *Store) readKV(table string) (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM " + table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		data[key] = value
	}
	return data, rows.Err()
}

func (s *Store) upsertKV(table string, data map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO ` + table + ` (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range data {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}
	return tx.Commit()
}

func (s *Store) LoadRecord() (models.Record, error) {
	data, err := s.readKV("task_state")
	if err != nil {
		return models.Record{}, fmt.Errorf("reading task state: %w", err)
	}
	rec, err := models.MapToRecord(data)
	if err != nil {
		return models.Record{}, err
	}

	rows, err := s.db.Query("SELECT day_start FROM completions ORDER BY day_start")
	if err != nil {
		return models.Record{}, fmt.Errorf("reading completions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var epoch int64
		if err := rows.Scan(&epoch); err != nil {
			return models.Record{}, err
		}
		rec.History = append(rec.History, time.Unix(epoch, 0))
	}
	return rec, rows.Err()
}

func (s *Store) SaveRecord(rec models.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO task_state (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range models.RecordToMap(rec) {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}

	if _, err := tx.Exec("DELETE FROM completions"); err != nil {
		return fmt.Errorf("clearing completions: %w", err)
	}
	ins, err := tx.Prepare("INSERT INTO completions (day, day_start) VALUES ($1, $2) ON CONFLICT (day) DO NOTHING")
	if err != nil {
		return err
	}
	defer ins.Close()

	for _, day := range rec.History {
		key := day.Format(constants.DateFormat)
		if _, err := ins.Exec(key, day.Unix()); err != nil {
			return fmt.Errorf("saving completion %s: %w", key, err)
		}
	}

	return tx.Commit()
}
