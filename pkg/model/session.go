package model

import (
	"time"
)

type SessionType string

const (
	SessionTypePractice   SessionType = "Practice"
	SessionTypeQualifying SessionType = "Qualifying"
	SessionTypeRace       SessionType = "Race"
)

// Session is a distinct period of track activity within a meeting.
//
//nolint:tagliatelle // openf1 field names
type Session struct {
	SessionKey       int         `json:"session_key"`
	MeetingKey       int         `json:"meeting_key"`
	SessionName      string      `json:"session_name"`
	SessionType      SessionType `json:"session_type"`
	CircuitShortName string      `json:"circuit_short_name"`
	CountryName      string      `json:"country_name"`
	Location         string      `json:"location"`
	DateStart        time.Time   `json:"date_start"`
	DateEnd          time.Time   `json:"date_end"`
	Year             int         `json:"year"`
}

type SessionTable []Session

func (t SessionTable) Header() []string {
	return []string{
		"session_key", "meeting_key", "session_name", "session_type",
		"circuit_short_name", "country_name", "location",
		"date_start", "date_end", "year",
	}
}

func (t SessionTable) Records() [][]string {
	ret := make([][]string, 0, len(t))
	for _, s := range t {
		ret = append(ret, []string{
			formatInt(s.SessionKey),
			formatInt(s.MeetingKey),
			s.SessionName,
			string(s.SessionType),
			s.CircuitShortName,
			s.CountryName,
			s.Location,
			formatTime(s.DateStart),
			formatTime(s.DateEnd),
			formatInt(s.Year),
		})
	}
	return ret
}

// OfType returns the sessions of the given type, keeping their order.
func (t SessionTable) OfType(st SessionType) SessionTable {
	ret := SessionTable{}
	for _, s := range t {
		if s.SessionType == st {
			ret = append(ret, s)
		}
	}
	return ret
}
