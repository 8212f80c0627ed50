package models

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/julianstephens/eatthefrog/internal/constants"
)

// RecordToMap flattens a record into the persisted key/value layout.
// Completion history is not part of the map; stores keep it separately.
func RecordToMap(r Record) map[string]string {
	m := map[string]string{
		constants.KeyTaskName:                r.Task.Name,
		constants.KeyTotalTime:               formatSeconds(r.Task.Total),
		constants.KeyRemainingTime:           formatSeconds(r.Task.Remaining),
		constants.KeyIsTaskStarted:           strconv.FormatBool(r.Task.Status == StatusRunning),
		constants.KeyStatus:                  string(r.Task.Status),
		constants.KeySessionID:               r.Task.SessionID,
		constants.KeyStartedAt:               formatEpoch(r.Task.StartedAt),
		constants.KeyStreakCount:             strconv.Itoa(r.StreakCount),
		constants.KeyLastDailyReset:          formatEpoch(r.LastDailyReset),
		constants.KeyBackgroundRemainingTime: "",
		constants.KeyBackgroundEntryTime:     "",
	}
	if r.Snapshot != nil {
		m[constants.KeyBackgroundRemainingTime] = formatSeconds(r.Snapshot.Remaining)
		m[constants.KeyBackgroundEntryTime] = formatEpoch(r.Snapshot.SuspendedAt)
	}
	return m
}

// MapToRecord rebuilds a record from the persisted key/value layout. Unknown
// keys are ignored and missing keys keep their zero values.
func MapToRecord(data map[string]string) (Record, error) {
	r := NewRecord()
	var err error

	for key, value := range data {
		if value == "" {
			continue
		}
		switch key {
		case constants.KeyTaskName:
			r.Task.Name = value
		case constants.KeyTotalTime:
			r.Task.Total, err = parseSeconds(value)
		case constants.KeyRemainingTime:
			r.Task.Remaining, err = parseSeconds(value)
		case constants.KeyStatus:
			r.Task.Status, err = ParseStatus(value)
		case constants.KeySessionID:
			r.Task.SessionID = value
		case constants.KeyStartedAt:
			r.Task.StartedAt, err = parseEpoch(value)
		case constants.KeyStreakCount:
			r.StreakCount, err = strconv.Atoi(value)
		case constants.KeyLastDailyReset:
			r.LastDailyReset, err = parseEpoch(value)
		}
		if err != nil {
			return Record{}, fmt.Errorf("parsing %s: %w", key, err)
		}
	}

	// Records written before the status key existed only carry isTaskStarted.
	if _, ok := data[constants.KeyStatus]; !ok && data[constants.KeyIsTaskStarted] == "true" {
		r.Task.Status = StatusRunning
	}

	if rem, ts := data[constants.KeyBackgroundRemainingTime], data[constants.KeyBackgroundEntryTime]; rem != "" && ts != "" {
		remaining, err := parseSeconds(rem)
		if err != nil {
			return Record{}, fmt.Errorf("parsing %s: %w", constants.KeyBackgroundRemainingTime, err)
		}
		suspendedAt, err := parseEpoch(ts)
		if err != nil {
			return Record{}, fmt.Errorf("parsing %s: %w", constants.KeyBackgroundEntryTime, err)
		}
		r.Snapshot = &Snapshot{Remaining: remaining, SuspendedAt: suspendedAt}
	}

	return r, nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

func parseSeconds(v string) (time.Duration, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(math.Round(f * float64(time.Second))), nil
}

func formatEpoch(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.FormatInt(t.Unix(), 10)
}

func parseEpoch(v string) (time.Time, error) {
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0), nil
}
