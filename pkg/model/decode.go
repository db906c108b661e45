package model

import (
	"math"
	"strings"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/spf13/cast"
)

// Values are coerced while decoding, before any row is dropped.
// Anything that is not a finite number becomes null.

func missing[T any]() null.Val[T] {
	return null.FromPtr[T](nil)
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	}
	return false
}

func CoerceFloat(v any) null.Val[float64] {
	if isBlank(v) {
		return missing[float64]()
	}
	if _, ok := v.(bool); ok {
		return missing[float64]()
	}
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return missing[float64]()
	}
	return null.From(f)
}

func CoerceInt(v any) null.Val[int] {
	f := CoerceFloat(v)
	x, ok := f.Get()
	if !ok || x != math.Trunc(x) || math.Abs(x) > math.MaxInt32 {
		return missing[int]()
	}
	return null.From(int(x))
}

func coerceBool(v any) bool {
	if isBlank(v) {
		return false
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false
	}
	return b
}

func coerceString(v any) string {
	if isBlank(v) {
		return ""
	}
	return cast.ToString(v)
}

func coerceTime(v any) time.Time {
	if isBlank(v) {
		return time.Time{}
	}
	t, err := cast.ToTimeE(v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DecodeLap converts a raw record. ok is false if the record lacks
// driver or lap number.
func DecodeLap(row RawRow) (lap Lap, ok bool) {
	driver, okDriver := CoerceInt(row["driver_number"]).Get()
	lapNum, okLap := CoerceInt(row["lap_number"]).Get()
	if !okDriver || !okLap {
		return Lap{}, false
	}
	return Lap{
		SessionKey:      CoerceInt(row["session_key"]).GetOrZero(),
		MeetingKey:      CoerceInt(row["meeting_key"]).GetOrZero(),
		DriverNumber:    driver,
		LapNumber:       lapNum,
		LapDuration:     CoerceFloat(row["lap_duration"]),
		DurationSector1: CoerceFloat(row["duration_sector_1"]),
		DurationSector2: CoerceFloat(row["duration_sector_2"]),
		DurationSector3: CoerceFloat(row["duration_sector_3"]),
		I1Speed:         CoerceFloat(row["i1_speed"]),
		I2Speed:         CoerceFloat(row["i2_speed"]),
		StSpeed:         CoerceFloat(row["st_speed"]),
		IsPitOutLap:     coerceBool(row["is_pit_out_lap"]),
	}, true
}

// DecodeLaps returns the decoded laps and the number of skipped records.
func DecodeLaps(rows RawRows) (laps []Lap, skipped int) {
	laps = make([]Lap, 0, len(rows))
	for _, row := range rows {
		if l, ok := DecodeLap(row); ok {
			laps = append(laps, l)
		} else {
			skipped++
		}
	}
	return laps, skipped
}

// DecodeStint converts a raw record. ok is false if the record lacks
// driver or stint number. Unknown lap bounds yield an empty range.
func DecodeStint(row RawRow) (stint Stint, ok bool) {
	driver, okDriver := CoerceInt(row["driver_number"]).Get()
	num, okNum := CoerceInt(row["stint_number"]).Get()
	if !okDriver || !okNum {
		return Stint{}, false
	}
	ret := Stint{
		DriverNumber:   driver,
		StintNumber:    num,
		Compound:       ParseCompound(coerceString(row["compound"])),
		TyreAgeAtStart: CoerceInt(row["tyre_age_at_start"]),
	}
	start, okStart := CoerceInt(row["lap_start"]).Get()
	end, okEnd := CoerceInt(row["lap_end"]).Get()
	switch {
	case okStart && okEnd:
		ret.LapStart, ret.LapEnd = start, end
	case okStart:
		ret.LapStart, ret.LapEnd = start, start-1
	default:
		ret.LapStart, ret.LapEnd = 0, -1
	}
	return ret, true
}

func DecodeStints(rows RawRows) (stints []Stint, skipped int) {
	stints = make([]Stint, 0, len(rows))
	for _, row := range rows {
		if s, ok := DecodeStint(row); ok {
			stints = append(stints, s)
		} else {
			skipped++
		}
	}
	return stints, skipped
}

func DecodeSessions(rows RawRows) SessionTable {
	ret := make(SessionTable, 0, len(rows))
	for _, row := range rows {
		key, ok := CoerceInt(row["session_key"]).Get()
		if !ok {
			continue
		}
		ret = append(ret, Session{
			SessionKey:       key,
			MeetingKey:       CoerceInt(row["meeting_key"]).GetOrZero(),
			SessionName:      coerceString(row["session_name"]),
			SessionType:      SessionType(coerceString(row["session_type"])),
			CircuitShortName: coerceString(row["circuit_short_name"]),
			CountryName:      coerceString(row["country_name"]),
			Location:         coerceString(row["location"]),
			DateStart:        coerceTime(row["date_start"]),
			DateEnd:          coerceTime(row["date_end"]),
			Year:             CoerceInt(row["year"]).GetOrZero(),
		})
	}
	return ret
}
