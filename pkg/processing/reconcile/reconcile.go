package reconcile

import (
	"errors"
	"math"
	"slices"
	"sort"

	"github.com/samber/lo"

	"github.com/mpapenbr/openf1-analysis/log"
	"github.com/mpapenbr/openf1-analysis/pkg/model"
)

const DefaultKeyMargin = 10

var ErrKeyOverflow = errors.New("composite lap key exceeds int64 range")

type Reconciler struct {
	keyMargin int64
	log       *log.Logger
}

type Option func(r *Reconciler)

// WithKeyMargin sets the safety margin added to the highest lap number
// when computing the composite key factor.
func WithKeyMargin(margin int) Option {
	return func(r *Reconciler) {
		if margin > 0 {
			r.keyMargin = int64(margin)
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(r *Reconciler) {
		r.log = l
	}
}

func NewReconciler(opts ...Option) *Reconciler {
	r := &Reconciler{
		keyMargin: DefaultKeyMargin,
		log:       log.Default().Named("reconcile"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type keyed[T any] struct {
	key  int64
	item *T
}

// Reconcile returns one combined record per lap, ordered by driver and lap
// number. Each lap carries the stint of the same driver whose lap range
// contains the lap number, or no stint at all.
func (r *Reconciler) Reconcile(laps []model.Lap, stints []model.Stint) (
	[]model.CombinedLap, error,
) {
	factor := r.keyFactor(laps, stints)
	if err := checkKeyRange(laps, stints, factor); err != nil {
		return nil, err
	}

	lapsByDriver := lo.GroupBy(lo.ToSlicePtr(laps),
		func(l *model.Lap) int { return l.DriverNumber })
	stintsByDriver := lo.GroupBy(lo.ToSlicePtr(stints),
		func(s *model.Stint) int { return s.DriverNumber })

	drivers := lo.Keys(lapsByDriver)
	slices.Sort(drivers)

	ret := make([]model.CombinedLap, 0, len(laps))
	unmatched := 0
	for _, driver := range drivers {
		lapKeys := lo.Map(lapsByDriver[driver], func(l *model.Lap, _ int) keyed[model.Lap] {
			return keyed[model.Lap]{key: int64(driver)*factor + int64(l.LapNumber), item: l}
		})
		stintKeys := lo.Map(stintsByDriver[driver],
			func(s *model.Stint, _ int) keyed[model.Stint] {
				return keyed[model.Stint]{key: int64(driver)*factor + int64(s.LapStart), item: s}
			})
		for _, c := range mergeBackward(lapKeys, stintKeys) {
			if c.Stint == nil {
				unmatched++
			}
			ret = append(ret, c)
		}
	}
	if unmatched > 0 {
		r.log.Debug("laps without valid stint",
			log.Int("unmatched", unmatched), log.Int("laps", len(laps)))
	}
	return ret, nil
}

// mergeBackward assigns each lap the latest stint whose key is <= the lap key.
// The candidate is only kept if its lap range really contains the lap.
func mergeBackward(laps []keyed[model.Lap], stints []keyed[model.Stint]) []model.CombinedLap {
	sort.SliceStable(laps, func(i, j int) bool { return laps[i].key < laps[j].key })
	sort.SliceStable(stints, func(i, j int) bool { return stints[i].key < stints[j].key })

	ret := make([]model.CombinedLap, 0, len(laps))
	j := -1
	for _, l := range laps {
		for j+1 < len(stints) && stints[j+1].key <= l.key {
			j++
		}
		c := model.CombinedLap{Lap: *l.item}
		if j >= 0 {
			c.Stint = validated(l.item, stints[j].item)
		}
		ret = append(ret, c)
	}
	return ret
}

func validated(l *model.Lap, s *model.Stint) *model.Stint {
	if s.DriverNumber != l.DriverNumber || !s.Contains(l.LapNumber) {
		return nil
	}
	ret := *s
	return &ret
}

// keyFactor exceeds every lap number and stint boundary of the input.
func (r *Reconciler) keyFactor(laps []model.Lap, stints []model.Stint) int64 {
	maxPos := 0
	for i := range laps {
		maxPos = max(maxPos, laps[i].LapNumber)
	}
	for i := range stints {
		maxPos = max(maxPos, stints[i].LapEnd, stints[i].LapStart)
	}
	return int64(maxPos) + r.keyMargin
}

func checkKeyRange(laps []model.Lap, stints []model.Stint, factor int64) error {
	maxDriver := 0
	for i := range laps {
		maxDriver = max(maxDriver, abs(laps[i].DriverNumber))
	}
	for i := range stints {
		maxDriver = max(maxDriver, abs(stints[i].DriverNumber))
	}
	if maxDriver > 0 && int64(maxDriver) > (math.MaxInt64-factor)/factor {
		return ErrKeyOverflow
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
