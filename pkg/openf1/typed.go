package openf1

import (
	"context"

	"github.com/mpapenbr/openf1-analysis/log"
	"github.com/mpapenbr/openf1-analysis/pkg/model"
)

// Laps returns all laps of a session. Records without driver or lap
// number are skipped.
func Laps(ctx context.Context, f Fetcher, sessionKey int) ([]model.Lap, error) {
	rows, err := f.Fetch(ctx, EndpointLaps, Params{Eq("session_key", sessionKey)})
	if err != nil {
		return nil, err
	}
	laps, skipped := model.DecodeLaps(rows)
	logSkipped(ctx, EndpointLaps, sessionKey, skipped)
	return laps, nil
}

// Stints returns all stints of a session. Records without driver or stint
// number are skipped.
func Stints(ctx context.Context, f Fetcher, sessionKey int) ([]model.Stint, error) {
	rows, err := f.Fetch(ctx, EndpointStints, Params{Eq("session_key", sessionKey)})
	if err != nil {
		return nil, err
	}
	stints, skipped := model.DecodeStints(rows)
	logSkipped(ctx, EndpointStints, sessionKey, skipped)
	return stints, nil
}

// Sessions returns the sessions matching params.
func Sessions(ctx context.Context, f Fetcher, params Params) (model.SessionTable, error) {
	rows, err := f.Fetch(ctx, EndpointSessions, params)
	if err != nil {
		return nil, err
	}
	return model.DecodeSessions(rows), nil
}

// SessionsBetween returns the sessions starting at or after from and ending
// at or before to. Both are dates like 2025-03-13.
func SessionsBetween(ctx context.Context, f Fetcher, from, to string) (model.SessionTable, error) {
	params := Params{}
	if from != "" {
		params = append(params, Gte("date_start", from))
	}
	if to != "" {
		params = append(params, Lte("date_end", to))
	}
	if len(params) == 0 {
		return nil, ErrMissingDateRange
	}
	return Sessions(ctx, f, params)
}

func Drivers(ctx context.Context, f Fetcher, sessionKey int) (model.DriverTable, error) {
	rows, err := f.Fetch(ctx, EndpointDrivers, Params{Eq("session_key", sessionKey)})
	if err != nil {
		return nil, err
	}
	return model.DecodeDrivers(rows), nil
}

// Weather returns the raw weather samples of a session.
func Weather(ctx context.Context, f Fetcher, sessionKey int) (model.RawRows, error) {
	return f.Fetch(ctx, EndpointWeather, Params{Eq("session_key", sessionKey)})
}

func logSkipped(ctx context.Context, endpoint string, sessionKey, skipped int) {
	if skipped == 0 {
		return
	}
	log.GetFromContext(ctx).Named("openf1").Warn("skipped incomplete records",
		log.String("endpoint", endpoint),
		log.Int("sessionKey", sessionKey),
		log.Int("skipped", skipped))
}
