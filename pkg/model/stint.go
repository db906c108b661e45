package model

import (
	"strings"

	"github.com/aarondl/opt/null"
)

// Compound is the tyre compound used during a stint.
type Compound string

const (
	CompoundSoft         Compound = "SOFT"
	CompoundMedium       Compound = "MEDIUM"
	CompoundHard         Compound = "HARD"
	CompoundIntermediate Compound = "INTERMEDIATE"
	CompoundWet          Compound = "WET"
	CompoundTest         Compound = "TEST"
	CompoundUnknown      Compound = "UNKNOWN"
	// no compound reported
	CompoundMissing Compound = ""
)

// ParseCompound maps unrecognized names to CompoundUnknown and empty input
// to CompoundMissing.
func ParseCompound(s string) Compound {
	switch c := Compound(strings.ToUpper(strings.TrimSpace(s))); c {
	case CompoundSoft, CompoundMedium, CompoundHard,
		CompoundIntermediate, CompoundWet, CompoundTest, CompoundUnknown,
		CompoundMissing:
		return c
	default:
		return CompoundUnknown
	}
}

// Stint is a continuous period of driving on one set of tyres.
// The lap range [LapStart, LapEnd] is inclusive. Stints with unknown bounds
// are decoded with an empty range so they never contain a lap.
//
//nolint:tagliatelle // openf1 field names
type Stint struct {
	DriverNumber   int           `json:"driver_number"`
	StintNumber    int           `json:"stint_number"`
	Compound       Compound      `json:"compound"`
	LapStart       int           `json:"lap_start"`
	LapEnd         int           `json:"lap_end"`
	TyreAgeAtStart null.Val[int] `json:"tyre_age_at_start"`
}

func (s *Stint) Contains(lapNumber int) bool {
	return s.LapStart <= lapNumber && lapNumber <= s.LapEnd
}

type StintTable []Stint

func (t StintTable) Header() []string {
	return []string{
		"driver_number", "stint_number", "compound",
		"lap_start", "lap_end", "tyre_age_at_start",
	}
}

func (t StintTable) Records() [][]string {
	ret := make([][]string, 0, len(t))
	for _, s := range t {
		ret = append(ret, []string{
			formatInt(s.DriverNumber),
			formatInt(s.StintNumber),
			string(s.Compound),
			formatInt(s.LapStart),
			formatInt(s.LapEnd),
			formatNullInt(s.TyreAgeAtStart),
		})
	}
	return ret
}
