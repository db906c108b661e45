package model

import (
	"github.com/aarondl/opt/null"
)

// Lap is one completed lap of one driver within a session.
// Durations are seconds, speeds km/h. Any of them may be missing.
//
//nolint:tagliatelle // openf1 field names
type Lap struct {
	SessionKey      int               `json:"session_key"`
	MeetingKey      int               `json:"meeting_key"`
	DriverNumber    int               `json:"driver_number"`
	LapNumber       int               `json:"lap_number"`
	LapDuration     null.Val[float64] `json:"lap_duration"`
	DurationSector1 null.Val[float64] `json:"duration_sector_1"`
	DurationSector2 null.Val[float64] `json:"duration_sector_2"`
	DurationSector3 null.Val[float64] `json:"duration_sector_3"`
	I1Speed         null.Val[float64] `json:"i1_speed"`
	I2Speed         null.Val[float64] `json:"i2_speed"`
	StSpeed         null.Val[float64] `json:"st_speed"`
	IsPitOutLap     bool              `json:"is_pit_out_lap"`
}

// Sectors returns the three sector durations in track order.
func (l *Lap) Sectors() [3]null.Val[float64] {
	return [3]null.Val[float64]{l.DurationSector1, l.DurationSector2, l.DurationSector3}
}

// Speeds returns i1, i2 and speed trap values.
func (l *Lap) Speeds() [3]null.Val[float64] {
	return [3]null.Val[float64]{l.I1Speed, l.I2Speed, l.StSpeed}
}

// CombinedLap is a lap annotated with the stint active during that lap.
// Stint is nil if no stint of the same driver covers the lap number.
type CombinedLap struct {
	Lap
	Stint *Stint
}

type LapTable []Lap

type CombinedTable []CombinedLap

func (t LapTable) Header() []string {
	return lapHeader()
}

func (t LapTable) Records() [][]string {
	ret := make([][]string, 0, len(t))
	for i := range t {
		ret = append(ret, lapRecord(&t[i]))
	}
	return ret
}

func (t CombinedTable) Header() []string {
	return append(lapHeader(),
		"stint_number", "compound", "lap_start", "lap_end", "tyre_age_at_start")
}

func (t CombinedTable) Records() [][]string {
	ret := make([][]string, 0, len(t))
	for i := range t {
		rec := lapRecord(&t[i].Lap)
		if s := t[i].Stint; s != nil {
			rec = append(rec,
				formatInt(s.StintNumber),
				string(s.Compound),
				formatInt(s.LapStart),
				formatInt(s.LapEnd),
				formatNullInt(s.TyreAgeAtStart))
		} else {
			rec = append(rec, "", "", "", "", "")
		}
		ret = append(ret, rec)
	}
	return ret
}

func lapHeader() []string {
	return []string{
		"driver_number", "lap_number", "lap_duration",
		"duration_sector_1", "duration_sector_2", "duration_sector_3",
		"i1_speed", "i2_speed", "st_speed", "is_pit_out_lap",
	}
}

func lapRecord(l *Lap) []string {
	return []string{
		formatInt(l.DriverNumber),
		formatInt(l.LapNumber),
		formatNullFloat(l.LapDuration),
		formatNullFloat(l.DurationSector1),
		formatNullFloat(l.DurationSector2),
		formatNullFloat(l.DurationSector3),
		formatNullFloat(l.I1Speed),
		formatNullFloat(l.I2Speed),
		formatNullFloat(l.StSpeed),
		formatBool(l.IsPitOutLap),
	}
}
