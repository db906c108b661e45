package score

import (
	"math"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/openf1-analysis/log"
	"github.com/mpapenbr/openf1-analysis/pkg/model"
)

// Thresholds control which laps count as qualifying-pace laps.
// All gaps are percentages.
type Thresholds struct {
	MaxTimeGap     float64 // lap must be strictly within this gap to own best lap
	MaxSectorGap   float64 // sector counts as fast if gap to stint best is <= this
	MinFastSectors int     // number of fast sectors required
	MaxSpeedDelta  float64 // speed trap delta to own best must be greater than this
	RoundPlaces    int32   // decimal places used for all derived values
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxTimeGap:     2,
		MaxSectorGap:   2,
		MinFastSectors: 3,
		MaxSpeedDelta:  -2.5,
		RoundPlaces:    2,
	}
}

type Scorer struct {
	th  Thresholds
	log *log.Logger
}

type Option func(s *Scorer)

func WithThresholds(th Thresholds) Option {
	return func(s *Scorer) {
		s.th = th
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Scorer) {
		s.log = l
	}
}

func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		th:  DefaultThresholds(),
		log: log.Default().Named("score"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreAndFilter runs the whole pipeline: drop incomplete laps, compute
// relative metrics, keep qualifying-pace laps and compute their gaps to
// the session best values.
func (s *Scorer) ScoreAndFilter(combined []model.CombinedLap) []model.RepresentativeLap {
	scored := s.Score(combined)
	quali := s.Qualifying(scored)
	s.log.Debug("scored laps",
		log.Int("combined", len(combined)),
		log.Int("scored", len(scored)),
		log.Int("qualifying", len(quali)))
	return s.Leaderboard(quali)
}

type stintKey struct {
	driver int
	stint  int
}

// Score computes the per driver and per stint metrics for all complete
// laps. Pit-out laps and laps with any missing value are dropped, as are
// laps whose metrics cannot be computed (e.g. zero reference values).
// The input order is kept.
func (s *Scorer) Score(combined []model.CombinedLap) []model.ScoredLap {
	work := make([]model.ScoredLap, 0, len(combined))
	for i := range combined {
		if sl, ok := complete(&combined[i]); ok {
			work = append(work, sl)
		}
	}
	if len(work) == 0 {
		return []model.ScoredLap{}
	}

	bestLap := map[int]float64{}
	bestSpeeds := map[int][3]float64{}
	for driver, items := range lo.GroupBy(work, func(l model.ScoredLap) int { return l.DriverNumber }) {
		bestLap[driver] = lo.MinBy(items, func(a, b model.ScoredLap) bool {
			return a.LapDuration < b.LapDuration
		}).LapDuration
		bestSpeeds[driver] = [3]float64{
			lo.Max(lo.Map(items, func(l model.ScoredLap, _ int) float64 { return l.I1Speed })),
			lo.Max(lo.Map(items, func(l model.ScoredLap, _ int) float64 { return l.I2Speed })),
			lo.Max(lo.Map(items, func(l model.ScoredLap, _ int) float64 { return l.StSpeed })),
		}
	}
	bestSectors := map[stintKey][3]float64{}
	for key, items := range lo.GroupBy(work, func(l model.ScoredLap) stintKey {
		return stintKey{driver: l.DriverNumber, stint: l.StintNumber}
	}) {
		var best [3]float64
		for i := range best {
			best[i] = lo.Min(lo.Map(items, func(l model.ScoredLap, _ int) float64 { return l.Sectors[i] }))
		}
		bestSectors[key] = best
	}

	ret := make([]model.ScoredLap, 0, len(work))
	for _, l := range work {
		var ok bool
		if l.PctGapToBestLap, ok = s.pctGap(l.LapDuration, bestLap[l.DriverNumber]); !ok {
			continue
		}
		sectorsOk := true
		best := bestSectors[stintKey{driver: l.DriverNumber, stint: l.StintNumber}]
		for i := range l.Sectors {
			if l.SectorPctGaps[i], ok = s.pctGap(l.Sectors[i], best[i]); !ok {
				sectorsOk = false
			}
		}
		if !sectorsOk {
			continue
		}
		l.FastSectors = lo.CountBy(l.SectorPctGaps[:], func(g float64) bool {
			return g <= s.th.MaxSectorGap
		})
		l.WorstSectorGap = lo.Max(l.SectorPctGaps[:])

		speeds := bestSpeeds[l.DriverNumber]
		var ok1, ok2, ok3 bool
		l.I1SpeedDeltaToBest, ok1 = s.pctGap(l.I1Speed, speeds[0])
		l.I2SpeedDeltaToBest, ok2 = s.pctGap(l.I2Speed, speeds[1])
		l.StSpeedDeltaToBest, ok3 = s.pctGap(l.StSpeed, speeds[2])
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		ret = append(ret, l)
	}
	if dropped := len(work) - len(ret); dropped > 0 {
		s.log.Debug("laps without computable metrics", log.Int("dropped", dropped))
	}
	return ret
}

// Qualifying keeps the laps that are fast overall, fast in every sector
// and not backed off at the speed trap.
func (s *Scorer) Qualifying(scored []model.ScoredLap) []model.ScoredLap {
	return lo.Filter(scored, func(l model.ScoredLap, _ int) bool {
		return l.PctGapToBestLap < s.th.MaxTimeGap &&
			l.FastSectors == s.th.MinFastSectors &&
			l.StSpeedDeltaToBest > s.th.MaxSpeedDelta
	})
}

// Leaderboard reduces the laps to the representative columns and adds the
// gaps to the best values among them. The speed trap gap is inverted since
// higher speeds are better.
func (s *Scorer) Leaderboard(laps []model.ScoredLap) []model.RepresentativeLap {
	if len(laps) == 0 {
		return []model.RepresentativeLap{}
	}
	minLap := lo.Min(lo.Map(laps, func(l model.ScoredLap, _ int) float64 { return l.LapDuration }))
	maxSt := lo.Max(lo.Map(laps, func(l model.ScoredLap, _ int) float64 { return l.StSpeed }))
	var minSectors [3]float64
	for i := range minSectors {
		minSectors[i] = lo.Min(lo.Map(laps, func(l model.ScoredLap, _ int) float64 { return l.Sectors[i] }))
	}

	return lo.Map(laps, func(l model.ScoredLap, _ int) model.RepresentativeLap {
		r := model.RepresentativeLap{
			DriverNumber:    l.DriverNumber,
			StintNumber:     l.StintNumber,
			Compound:        l.Compound,
			LapDuration:     l.LapDuration,
			Sectors:         l.Sectors,
			StSpeed:         l.StSpeed,
			GapToLeader:     s.round(l.LapDuration - minLap),
			StDeltaToLeader: s.round(maxSt - l.StSpeed),
		}
		for i := range r.SectorGapToLeader {
			r.SectorGapToLeader[i] = s.round(l.Sectors[i] - minSectors[i])
		}
		return r
	})
}

// pctGap returns the rounded relative difference of v to ref in percent.
// ok is false if the result is not a finite number.
func (s *Scorer) pctGap(v, ref float64) (float64, bool) {
	if ref == 0 {
		return 0, false
	}
	g := (v/ref - 1.0) * 100.0
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return 0, false
	}
	return s.round(g), true
}

// round scales v by 10^RoundPlaces, rounds half to even and scales back,
// so 2.005 yields 2.0 and 2.675 yields 2.68.
// Rounding is applied before any threshold comparison.
func (s *Scorer) round(v float64) float64 {
	scaled := v * math.Pow10(int(s.th.RoundPlaces))
	f, _ := decimal.NewFromFloat(scaled).RoundBank(0).Shift(-s.th.RoundPlaces).Float64()
	return f
}

// complete converts a combined lap into a scoring candidate.
// ok is false for pit-out laps and laps with any missing value, the stint
// compound included.
func complete(c *model.CombinedLap) (model.ScoredLap, bool) {
	if c.IsPitOutLap || c.Stint == nil || c.Stint.Compound == model.CompoundMissing {
		return model.ScoredLap{}, false
	}
	vals := make([]float64, 0, 7)
	for _, v := range []func() (float64, bool){
		c.LapDuration.Get,
		c.DurationSector1.Get, c.DurationSector2.Get, c.DurationSector3.Get,
		c.I1Speed.Get, c.I2Speed.Get, c.StSpeed.Get,
	} {
		f, ok := v()
		if !ok {
			return model.ScoredLap{}, false
		}
		vals = append(vals, f)
	}
	age, ok := c.Stint.TyreAgeAtStart.Get()
	if !ok {
		return model.ScoredLap{}, false
	}
	return model.ScoredLap{
		DriverNumber:   c.DriverNumber,
		StintNumber:    c.Stint.StintNumber,
		Compound:       c.Stint.Compound,
		TyreAgeAtStart: age,
		LapNumber:      c.LapNumber,
		LapDuration:    vals[0],
		Sectors:        [3]float64{vals[1], vals[2], vals[3]},
		I1Speed:        vals[4],
		I2Speed:        vals[5],
		StSpeed:        vals[6],
	}, true
}
