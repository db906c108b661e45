package util

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mpapenbr/openf1-analysis/pkg/model"
)

func formatLapTime(secs float64) string {
	m := int(secs) / 60
	return fmt.Sprintf("%d:%06.3f", m, secs-float64(m*60))
}

// speed trap deltas are stored as positive values
func formatSpeedDelta(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("-%.2f", v)
}

func formatGap(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("+%.2f", v)
}

// RenderLeaderboard prints the qualifying runs ordered by lap time.
// Drivers are shown by acronym if known.
func RenderLeaderboard(w io.Writer, title string, laps model.RepresentativeTable, acronyms map[int]string) {
	sorted := slices.Clone(laps)
	slices.SortStableFunc(sorted, func(a, b model.RepresentativeLap) int {
		return cmp.Compare(a.LapDuration, b.LapDuration)
	})

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	t.AppendHeader(table.Row{
		"#", "Driver", "Stint", "Tyre", "Lap", "Gap",
		"S1", "S2", "S3", "ST", "ST Delta",
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	for i, l := range sorted {
		driver := strconv.Itoa(l.DriverNumber)
		if a, ok := acronyms[l.DriverNumber]; ok {
			driver = fmt.Sprintf("%s (%d)", a, l.DriverNumber)
		}
		t.AppendRow(table.Row{
			i + 1,
			driver,
			l.StintNumber,
			string(l.Compound),
			formatLapTime(l.LapDuration),
			formatGap(l.GapToLeader),
			formatGap(l.SectorGapToLeader[0]),
			formatGap(l.SectorGapToLeader[1]),
			formatGap(l.SectorGapToLeader[2]),
			fmt.Sprintf("%.0f", l.StSpeed),
			formatSpeedDelta(l.StDeltaToLeader),
		})
	}
	t.Render()
}

// RenderTable prints any table as is.
func RenderTable(w io.Writer, title string, tbl model.Table) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	header := table.Row{}
	for _, h := range tbl.Header() {
		header = append(header, h)
	}
	t.AppendHeader(header)
	for _, rec := range tbl.Records() {
		row := make(table.Row, 0, len(rec))
		for _, v := range rec {
			row = append(row, v)
		}
		t.AppendRow(row)
	}
	t.Render()
}
