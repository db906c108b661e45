// Package basedata provides raw OpenF1 records of a small practice session
// with two drivers.
//
// Driver 1 runs two stints (laps 1-3 SOFT, laps 4-6 MEDIUM), laps 1 and 4
// are pit-out laps. Driver 44 runs one stint (laps 1-4 SOFT), lap 3 is too
// slow and lap 4 has no lap time. The qualifying runs of this session are
// laps 2, 3, 5 and 6 of driver 1 and lap 2 of driver 44.
package basedata

import (
	"github.com/mpapenbr/openf1-analysis/pkg/model"
)

const (
	SessionKey = 9158
	MeetingKey = 1254
)

func lap(driver, num int, dur any, s1, s2, s3, st any, pitOut bool) model.RawRow {
	return model.RawRow{
		"meeting_key":       int64(MeetingKey),
		"session_key":       int64(SessionKey),
		"driver_number":     int64(driver),
		"lap_number":        int64(num),
		"date_start":        "2025-03-14T01:30:00.000000+00:00",
		"lap_duration":      dur,
		"duration_sector_1": s1,
		"duration_sector_2": s2,
		"duration_sector_3": s3,
		"i1_speed":          int64(280),
		"i2_speed":          int64(260),
		"st_speed":          st,
		"is_pit_out_lap":    pitOut,
		"segments_sector_1": []any{int64(2049), int64(2049)},
	}
}

func LapRows() model.RawRows {
	return model.RawRows{
		lap(1, 1, 95.0, nil, 32.0, 33.0, int64(300), true),
		lap(1, 2, 90.0, 30.0, 30.0, 30.0, int64(320), false),
		lap(1, 3, 90.5, 30.2, 30.1, 30.2, int64(319), false),
		lap(1, 4, 96.0, 32.0, 32.0, 32.0, int64(290), true),
		lap(1, 5, 91.0, 30.3, 30.4, 30.3, int64(318), false),
		lap(1, 6, 91.2, 30.4, 30.3, 30.5, int64(318), false),
		lap(44, 1, 97.0, nil, 33.0, 33.0, int64(295), true),
		lap(44, 2, 89.8, 29.9, 29.9, 30.0, int64(322), false),
		lap(44, 3, 92.5, 30.5, 31.0, 31.0, int64(321), false),
		lap(44, 4, nil, 30.1, "", nil, nil, false),
	}
}

func stint(driver, num int, compound string, start, end, age int) model.RawRow {
	return model.RawRow{
		"meeting_key":       int64(MeetingKey),
		"session_key":       int64(SessionKey),
		"driver_number":     int64(driver),
		"stint_number":      int64(num),
		"compound":          compound,
		"lap_start":         int64(start),
		"lap_end":           int64(end),
		"tyre_age_at_start": int64(age),
	}
}

func StintRows() model.RawRows {
	return model.RawRows{
		stint(1, 1, "SOFT", 1, 3, 0),
		stint(1, 2, "MEDIUM", 4, 6, 3),
		stint(44, 1, "SOFT", 1, 4, 1),
	}
}

func session(key int, name, sessionType, start, end string) model.RawRow {
	return model.RawRow{
		"session_key":        int64(key),
		"meeting_key":        int64(MeetingKey),
		"session_name":       name,
		"session_type":       sessionType,
		"circuit_short_name": "Melbourne",
		"country_name":       "Australia",
		"location":           "Melbourne",
		"date_start":         start,
		"date_end":           end,
		"year":               int64(2025),
	}
}

// SessionRows contains the sessions of one meeting. The first practice
// session is listed twice.
func SessionRows() model.RawRows {
	return model.RawRows{
		session(SessionKey, "Practice 1", "Practice", "2025-03-14T01:30:00+00:00", "2025-03-14T02:30:00+00:00"),
		session(9159, "Practice 2", "Practice", "2025-03-14T05:00:00+00:00", "2025-03-14T06:00:00+00:00"),
		session(SessionKey, "Practice 1", "Practice", "2025-03-14T01:30:00+00:00", "2025-03-14T02:30:00+00:00"),
		session(9160, "Qualifying", "Qualifying", "2025-03-15T05:00:00+00:00", "2025-03-15T06:00:00+00:00"),
		session(9161, "Race", "Race", "2025-03-16T04:00:00+00:00", "2025-03-16T06:00:00+00:00"),
	}
}

func DriverRows() model.RawRows {
	return model.RawRows{
		{"driver_number": int64(1), "name_acronym": "VER", "full_name": "Max VERSTAPPEN", "team_name": "Red Bull Racing"},
		{"driver_number": int64(44), "name_acronym": "HAM", "full_name": "Lewis HAMILTON", "team_name": "Ferrari"},
	}
}

func WeatherRows() model.RawRows {
	return model.RawRows{
		{"date": "2025-03-14T01:30:00+00:00", "air_temperature": 21.3, "track_temperature": 33.1, "rainfall": int64(0)},
		{"date": "2025-03-14T01:31:00+00:00", "air_temperature": 21.4, "track_temperature": 33.4, "rainfall": int64(0)},
	}
}
