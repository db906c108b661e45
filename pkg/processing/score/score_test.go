//nolint:funlen,lll // ok for tests
package score

import (
	"testing"

	"github.com/aarondl/opt/null"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/openf1-analysis/pkg/model"
)

type lapOption func(c *model.CombinedLap)

func pitOut() lapOption {
	return func(c *model.CombinedLap) { c.IsPitOutLap = true }
}

func noStSpeed() lapOption {
	return func(c *model.CombinedLap) { c.StSpeed = null.FromPtr[float64](nil) }
}

func noStint() lapOption {
	return func(c *model.CombinedLap) { c.Stint = nil }
}

func noCompound() lapOption {
	return func(c *model.CombinedLap) { c.Stint.Compound = model.CompoundMissing }
}

func withSpeeds(i1, i2, st float64) lapOption {
	return func(c *model.CombinedLap) {
		c.I1Speed, c.I2Speed, c.StSpeed = null.From(i1), null.From(i2), null.From(st)
	}
}

func lap(driver, stint, lapNum int, dur, s1, s2, s3, st float64, opts ...lapOption) model.CombinedLap {
	c := model.CombinedLap{
		Lap: model.Lap{
			DriverNumber:    driver,
			LapNumber:       lapNum,
			LapDuration:     null.From(dur),
			DurationSector1: null.From(s1),
			DurationSector2: null.From(s2),
			DurationSector3: null.From(s3),
			I1Speed:         null.From(280.0),
			I2Speed:         null.From(260.0),
			StSpeed:         null.From(st),
		},
		Stint: &model.Stint{
			DriverNumber: driver, StintNumber: stint, Compound: model.CompoundSoft,
			LapStart: 1, LapEnd: 50, TyreAgeAtStart: null.From(0),
		},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func sampleSession() []model.CombinedLap {
	return []model.CombinedLap{
		lap(1, 1, 1, 85.0, 28.0, 28.0, 29.0, 330, pitOut()),    // fastest, but pit out
		lap(1, 1, 2, 90.0, 30.0, 30.0, 30.0, 320),              // best lap of driver 1
		lap(1, 1, 3, 90.9, 30.6, 30.1, 30.2, 318),              // s1 exactly 2% off
		lap(1, 1, 4, 92.0, 30.5, 30.5, 31.0, 320),              // lap 2.22% off
		lap(1, 1, 5, 91.0, 30.7, 30.1, 30.2, 320),              // s1 2.33% off
		lap(1, 1, 6, 91.0, 30.3, 30.3, 30.4, 310),              // speed trap -3.13%
		lap(1, 1, 7, 87.0, 29.0, 29.0, 29.0, 0, noStSpeed()),   // incomplete
		lap(44, 2, 8, 89.5, 29.8, 29.9, 29.8, 325),             // session best
		lap(44, 2, 9, 90.4, 30.1, 30.2, 30.1, 322),             // within limits
		lap(44, 2, 10, 87.0, 29.0, 29.0, 29.0, 330, noStint()), // no stint
	}
}

func byLap(scored []model.ScoredLap) map[int]model.ScoredLap {
	ret := map[int]model.ScoredLap{}
	for _, s := range scored {
		ret[s.LapNumber] = s
	}
	return ret
}

func TestScorer_Score(t *testing.T) {
	scored := NewScorer().Score(sampleSession())
	got := byLap(scored)

	assert.Len(t, scored, 7)
	for _, excluded := range []int{1, 7, 10} {
		assert.NotContains(t, got, excluded)
	}

	assert.Equal(t, 0.0, got[2].PctGapToBestLap)
	assert.Equal(t, 1.0, got[3].PctGapToBestLap)
	assert.Equal(t, 2.22, got[4].PctGapToBestLap)
	assert.Equal(t, 0.0, got[8].PctGapToBestLap)
	assert.Equal(t, 1.01, got[9].PctGapToBestLap)
	for _, s := range scored {
		assert.GreaterOrEqual(t, s.PctGapToBestLap, 0.0)
		assert.LessOrEqual(t, s.StSpeedDeltaToBest, 0.0)
		assert.LessOrEqual(t, s.I1SpeedDeltaToBest, 0.0)
		assert.LessOrEqual(t, s.I2SpeedDeltaToBest, 0.0)
	}

	// rounding is applied before the fast sector comparison
	assert.Equal(t, 2.0, got[3].SectorPctGaps[0])
	assert.Equal(t, 3, got[3].FastSectors)
	assert.Equal(t, 2.0, got[3].WorstSectorGap)

	assert.Equal(t, 2.33, got[5].SectorPctGaps[0])
	assert.Equal(t, 2, got[5].FastSectors)

	assert.Equal(t, 0.0, got[2].StSpeedDeltaToBest)
	assert.Less(t, got[6].StSpeedDeltaToBest, -2.5)
}

func TestScorer_SectorBestPerStint(t *testing.T) {
	scored := NewScorer().Score([]model.CombinedLap{
		lap(1, 1, 2, 90.0, 30.0, 30.0, 30.0, 320),
		lap(1, 2, 9, 93.5, 31.0, 31.5, 31.0, 320),
		lap(1, 2, 10, 93.5, 31.2, 31.0, 31.3, 320),
	})
	got := byLap(scored)
	require.Len(t, scored, 3)

	// stint 2 is compared to its own best sectors, taken from different laps
	assert.Equal(t, [3]float64{0, 1.61, 0}, got[9].SectorPctGaps)
	assert.Equal(t, [3]float64{0.65, 0, 0.97}, got[10].SectorPctGaps)
	assert.Equal(t, 3, got[10].FastSectors)
	// but the lap time is compared to the driver best
	assert.Equal(t, 3.89, got[9].PctGapToBestLap)
}

func TestScorer_Qualifying(t *testing.T) {
	s := NewScorer()
	quali := s.Qualifying(s.Score(sampleSession()))
	got := byLap(quali)

	assert.Len(t, quali, 4)
	for _, want := range []int{2, 3, 8, 9} {
		assert.Contains(t, got, want)
	}
	th := DefaultThresholds()
	for _, q := range quali {
		assert.Less(t, q.PctGapToBestLap, th.MaxTimeGap)
		assert.Equal(t, th.MinFastSectors, q.FastSectors)
		assert.Greater(t, q.StSpeedDeltaToBest, th.MaxSpeedDelta)
	}
}

func TestScorer_ScoreAndFilter(t *testing.T) {
	got := NewScorer().ScoreAndFilter(sampleSession())
	require.Len(t, got, 4)

	want := map[float64]model.RepresentativeLap{
		90.0: {
			DriverNumber: 1, StintNumber: 1, Compound: model.CompoundSoft,
			LapDuration: 90.0, Sectors: [3]float64{30.0, 30.0, 30.0}, StSpeed: 320,
			GapToLeader: 0.5, SectorGapToLeader: [3]float64{0.2, 0.1, 0.2}, StDeltaToLeader: 5,
		},
		89.5: {
			DriverNumber: 44, StintNumber: 2, Compound: model.CompoundSoft,
			LapDuration: 89.5, Sectors: [3]float64{29.8, 29.9, 29.8}, StSpeed: 325,
			GapToLeader: 0, SectorGapToLeader: [3]float64{0, 0, 0}, StDeltaToLeader: 0,
		},
	}
	leaders := 0
	for _, r := range got {
		if r.GapToLeader == 0 {
			leaders++
		}
		if w, ok := want[r.LapDuration]; ok {
			assert.Equal(t, w, r)
		}
	}
	assert.Equal(t, 1, leaders)
}

func TestScorer_Empty(t *testing.T) {
	s := NewScorer()
	assert.Empty(t, s.ScoreAndFilter(nil))
	assert.Empty(t, s.ScoreAndFilter([]model.CombinedLap{
		lap(1, 1, 1, 90, 30, 30, 30, 320, noStSpeed()),
		lap(1, 1, 2, 90, 30, 30, 30, 320, pitOut()),
	}))
}

func TestScorer_MissingCompound(t *testing.T) {
	s := NewScorer()
	got := s.ScoreAndFilter([]model.CombinedLap{
		lap(1, 1, 2, 90, 30, 30, 30, 320, noCompound()),
	})
	assert.Empty(t, got)

	scored := byLap(s.Score([]model.CombinedLap{
		lap(1, 1, 2, 90, 30, 30, 30, 320, noCompound()),
		lap(1, 1, 3, 90.5, 30.1, 30.2, 30.2, 320),
	}))
	assert.NotContains(t, scored, 2)
	assert.Contains(t, scored, 3)
}

func TestScorer_ZeroReference(t *testing.T) {
	got := NewScorer().Score([]model.CombinedLap{
		lap(1, 1, 1, 90, 30, 30, 30, 0, withSpeeds(0, 0, 0)),
		lap(3, 1, 1, 90, 30, 30, 30, 320),
	})
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].DriverNumber)
}

func TestScorer_Round(t *testing.T) {
	s := NewScorer()
	tests := []struct {
		arg  float64
		want float64
	}{
		{2.005, 2.0},
		{2.675, 2.68},
		{0.125, 0.12},
		{0.375, 0.38},
		{-2.5151, -2.52},
		{2.3333, 2.33},
		{1.0000000000000012, 1.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.round(tt.arg), "round(%v)", tt.arg)
	}
}

func TestScorer_CustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.MaxSectorGap = 2.5
	s := NewScorer(WithThresholds(th))
	got := byLap(s.Qualifying(s.Score(sampleSession())))
	assert.Contains(t, got, 5)
	assert.NotContains(t, got, 4)
	assert.NotContains(t, got, 6)
}
