package sqlite

import (
	"fmt"
	"time"

	"github.com/julianstephens/eatthefrog/internal/constants"
	"github.com/julianstephens/eatthefrog/internal/models"
)

func (s *Store) LoadRecord() (models.Record, error) {
	data, err := s.readKV("task_state")
	if err != nil {
		return models.Record{}, fmt.Errorf("reading task state: %w", err)
	}

	rec, err := models.MapToRecord(data)
	if err != nil {
		return models.Record{}, err
	}

	rec.History, err = s.completions()
	if err != nil {
		return models.Record{}, fmt.Errorf("reading completions: %w", err)
	}
	return rec, nil
}

func (s *Store) completions() ([]time.Time, error) {
	rows, err := s.db.Query("SELECT day_start FROM completions ORDER BY day_start")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var epoch int64
		if err := rows.Scan(&epoch); err != nil {
			return nil, err
		}
		days = append(days, time.Unix(epoch, 0))
	}
	return days, rows.Err()
}

// SaveRecord replaces the stored record in one transaction.
func (s *Store) SaveRecord(rec models.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO task_state (key, value) VALUES (?, ?)")
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
	ins, err := tx.Prepare("INSERT OR IGNORE INTO completions (day, day_start) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer ins.Close()

	for _, day := range rec.History {
		if _, err := ins.Exec(day.Format(constants.DateFormat), day.Unix()); err != nil {
			return fmt.Errorf("saving completion %s: %w", day.Format(constants.DateFormat), err)
		}
	}

	return tx.Commit()
}
