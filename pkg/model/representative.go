package model

// ScoredLap is a complete lap together with its relative metrics.
// Percentages are rounded; gaps are >= 0, speed deltas are <= 0.
type ScoredLap struct {
	DriverNumber   int
	StintNumber    int
	Compound       Compound
	TyreAgeAtStart int
	LapNumber      int

	LapDuration     float64
	PctGapToBestLap float64

	Sectors        [3]float64
	SectorPctGaps  [3]float64
	FastSectors    int
	WorstSectorGap float64

	I1Speed            float64
	I1SpeedDeltaToBest float64
	I2Speed            float64
	I2SpeedDeltaToBest float64
	StSpeed            float64
	StSpeedDeltaToBest float64
}

// RepresentativeLap is a lap that passed the qualifying-pace filter,
// with gaps to the best values among all surviving laps of the session.
type RepresentativeLap struct {
	DriverNumber int
	StintNumber  int
	Compound     Compound
	LapDuration  float64
	Sectors      [3]float64
	StSpeed      float64

	GapToLeader       float64
	SectorGapToLeader [3]float64
	StDeltaToLeader   float64
}

type ScoredTable []ScoredLap

type RepresentativeTable []RepresentativeLap

func (t ScoredTable) Header() []string {
	return []string{
		"driver_number", "stint_number", "compound", "tyre_age_at_start", "lap_number",
		"lap_duration", "pct_gap_to_best_lap",
		"duration_sector_1", "duration_sector_1_pct_gap_to_best",
		"duration_sector_2", "duration_sector_2_pct_gap_to_best",
		"duration_sector_3", "duration_sector_3_pct_gap_to_best",
		"fast_sectors", "worst_sector_gap",
		"i1_speed", "i1_speed_delta_to_best",
		"i2_speed", "i2_speed_delta_to_best",
		"st_speed", "st_speed_delta_to_best",
	}
}

func (t ScoredTable) Records() [][]string {
	ret := make([][]string, 0, len(t))
	for i := range t {
		s := &t[i]
		ret = append(ret, []string{
			formatInt(s.DriverNumber),
			formatInt(s.StintNumber),
			string(s.Compound),
			formatInt(s.TyreAgeAtStart),
			formatInt(s.LapNumber),
			formatFloat(s.LapDuration),
			formatFloat(s.PctGapToBestLap),
			formatFloat(s.Sectors[0]),
			formatFloat(s.SectorPctGaps[0]),
			formatFloat(s.Sectors[1]),
			formatFloat(s.SectorPctGaps[1]),
			formatFloat(s.Sectors[2]),
			formatFloat(s.SectorPctGaps[2]),
			formatInt(s.FastSectors),
			formatFloat(s.WorstSectorGap),
			formatFloat(s.I1Speed),
			formatFloat(s.I1SpeedDeltaToBest),
			formatFloat(s.I2Speed),
			formatFloat(s.I2SpeedDeltaToBest),
			formatFloat(s.StSpeed),
			formatFloat(s.StSpeedDeltaToBest),
		})
	}
	return ret
}

func (t RepresentativeTable) Header() []string {
	return []string{
		"driver_number", "stint_number", "compound", "lap_duration",
		"duration_sector_1", "duration_sector_2", "duration_sector_3", "st_speed",
		"gap_to_leader",
		"sector_1_gap_to_leader", "sector_2_gap_to_leader", "sector_3_gap_to_leader",
		"st_delta_to_leader",
	}
}

func (t RepresentativeTable) Records() [][]string {
	ret := make([][]string, 0, len(t))
	for i := range t {
		r := &t[i]
		ret = append(ret, []string{
			formatInt(r.DriverNumber),
			formatInt(r.StintNumber),
			string(r.Compound),
			formatFloat(r.LapDuration),
			formatFloat(r.Sectors[0]),
			formatFloat(r.Sectors[1]),
			formatFloat(r.Sectors[2]),
			formatFloat(r.StSpeed),
			formatFloat(r.GapToLeader),
			formatFloat(r.SectorGapToLeader[0]),
			formatFloat(r.SectorGapToLeader[1]),
			formatFloat(r.SectorGapToLeader[2]),
			formatFloat(r.StDeltaToLeader),
		})
	}
	return ret
}
