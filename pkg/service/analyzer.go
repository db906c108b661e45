package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/mpapenbr/openf1-analysis/log"
	"github.com/mpapenbr/openf1-analysis/pkg/model"
	"github.com/mpapenbr/openf1-analysis/pkg/openf1"
	"github.com/mpapenbr/openf1-analysis/pkg/processing/reconcile"
	"github.com/mpapenbr/openf1-analysis/pkg/processing/score"
	"github.com/mpapenbr/openf1-analysis/pkg/store"
)

const (
	categoryDrivers = "drivers"
	categoryWeather = "weather"
)

type (
	Analyzer struct {
		fetcher     openf1.Fetcher
		store       store.TableStore
		reconciler  *reconcile.Reconciler
		scorer      *score.Scorer
		withContext bool
		log         *log.Logger
	}
	AnalyzerOption func(a *Analyzer)
)

// SessionResult holds the tables produced for one session.
type SessionResult struct {
	SessionKey     int
	Combined       model.CombinedTable
	Scored         model.ScoredTable
	Representative model.RepresentativeTable
	// only filled if session context is requested
	Drivers model.DriverTable
}

type SeasonResult struct {
	Sessions model.SessionTable
	Results  []*SessionResult
}

func WithReconciler(r *reconcile.Reconciler) AnalyzerOption {
	return func(a *Analyzer) {
		a.reconciler = r
	}
}

func WithScorer(s *score.Scorer) AnalyzerOption {
	return func(a *Analyzer) {
		a.scorer = s
	}
}

// WithSessionContext also fetches and stores drivers and weather of each
// analyzed session.
func WithSessionContext(enabled bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.withContext = enabled
	}
}

func WithLogger(l *log.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.log = l
	}
}

func InitAnalyzer(f openf1.Fetcher, s store.TableStore, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		fetcher:    f,
		store:      s,
		reconciler: reconcile.NewReconciler(),
		scorer:     score.NewScorer(),
		log:        log.Default().Named("analyzer"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func SessionName(sessionKey int) string {
	return fmt.Sprintf("session_%d", sessionKey)
}

// Analyze computes the qualifying runs of a practice session. Fetch and
// store errors abort the analysis, incomplete records never do.
func (a *Analyzer) Analyze(ctx context.Context, sessionKey int) (*SessionResult, error) {
	l := a.log.With(log.Int("sessionKey", sessionKey))
	laps, err := openf1.Laps(ctx, a.fetcher, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("session %d: %w", sessionKey, err)
	}
	stints, err := openf1.Stints(ctx, a.fetcher, sessionKey)
	if err != nil {
		return nil, fmt.Errorf("session %d: %w", sessionKey, err)
	}
	combined, err := a.reconciler.Reconcile(laps, stints)
	if err != nil {
		return nil, fmt.Errorf("session %d: %w", sessionKey, err)
	}
	scored := a.scorer.Score(combined)
	quali := a.scorer.Qualifying(scored)
	ret := &SessionResult{
		SessionKey:     sessionKey,
		Combined:       combined,
		Scored:         scored,
		Representative: a.scorer.Leaderboard(quali),
	}
	l.Info("session analyzed",
		log.Int("laps", len(laps)),
		log.Int("stints", len(stints)),
		log.Int("scored", len(scored)),
		log.Int("qualifyingRuns", len(ret.Representative)))

	name := SessionName(sessionKey)
	for _, t := range []struct {
		category string
		table    model.Table
	}{
		{store.CategoryCombined, ret.Combined},
		{store.CategoryScored, ret.Scored},
		{store.CategoryQualifyingRuns, ret.Representative},
	} {
		if err := a.store.Store(ctx, t.table, t.category, name); err != nil {
			return nil, err
		}
	}
	if a.withContext {
		if ret.Drivers, err = a.sessionContext(ctx, sessionKey); err != nil {
			return nil, fmt.Errorf("session %d: %w", sessionKey, err)
		}
	}
	return ret, nil
}

func (a *Analyzer) sessionContext(ctx context.Context, sessionKey int) (model.DriverTable, error) {
	drivers, err := openf1.Drivers(ctx, a.fetcher, sessionKey)
	if err != nil {
		return nil, err
	}
	if err := a.store.Store(ctx, drivers, categoryDrivers, SessionName(sessionKey)); err != nil {
		return nil, err
	}
	weather, err := openf1.Weather(ctx, a.fetcher, sessionKey)
	if err != nil {
		return nil, err
	}
	if err := a.store.Store(ctx, weather, categoryWeather, SessionName(sessionKey)); err != nil {
		return nil, err
	}
	return drivers, nil
}

// Season fetches the sessions between from and to (dates like 2025-03-13),
// stores them split by session type and analyzes every practice session
// once.
func (a *Analyzer) Season(ctx context.Context, from, to string) (*SeasonResult, error) {
	sessions, err := openf1.SessionsBetween(ctx, a.fetcher, from, to)
	if err != nil {
		return nil, err
	}
	name := seasonName(from, to)
	for _, t := range []struct {
		category string
		st       model.SessionType
	}{
		{store.CategoryPractice, model.SessionTypePractice},
		{store.CategoryQualifying, model.SessionTypeQualifying},
		{store.CategoryRace, model.SessionTypeRace},
	} {
		if err := a.store.Store(ctx, sessions.OfType(t.st), t.category, name); err != nil {
			return nil, err
		}
	}

	keys := lo.Uniq(lo.Map(sessions.OfType(model.SessionTypePractice),
		func(s model.Session, _ int) int { return s.SessionKey }))
	a.log.Info("analyzing practice sessions",
		log.String("from", from), log.String("to", to), log.Int("sessions", len(keys)))

	ret := &SeasonResult{Sessions: sessions, Results: make([]*SessionResult, 0, len(keys))}
	for _, key := range keys {
		res, err := a.Analyze(ctx, key)
		if err != nil {
			return nil, err
		}
		ret.Results = append(ret.Results, res)
	}
	return ret, nil
}

func seasonName(from, to string) string {
	if from == "" {
		from = "open"
	}
	if to == "" {
		to = "open"
	}
	return fmt.Sprintf("season_%s_%s", from, to)
}
