package season

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/openf1-analysis/pkg/cmd/util"
	"github.com/mpapenbr/openf1-analysis/pkg/model"
)

var (
	from      string
	to        string
	printRuns bool
)

func NewSeasonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "season",
		Short: "analyzes all practice sessions within a date range",
		Long: `Fetches the sessions starting at or after --from and ending at or before --to,
stores them split by session type and analyzes every practice session.`,
		Example: "  ofa season --from 2025-03-13 --to 2025-09-28",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == "" && to == "" {
				return fmt.Errorf("at least one of --from or --to is required")
			}
			return analyzeSeason(cmd)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day of the range (e.g. 2025-03-13)")
	cmd.Flags().StringVar(&to, "to", "", "last day of the range (e.g. 2025-09-28)")
	cmd.Flags().BoolVar(&printRuns, "print", false, "print the qualifying runs of each session")
	return cmd
}

func analyzeSeason(cmd *cobra.Command) error {
	ctx := cmd.Context()
	env, err := util.NewEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	res, err := util.NewAnalyzer(env).Season(ctx, from, to)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	util.RenderTable(w, "Practice sessions", res.Sessions.OfType(model.SessionTypePractice))
	if printRuns {
		for _, r := range res.Results {
			util.RenderLeaderboard(w,
				fmt.Sprintf("Qualifying runs session %d", r.SessionKey),
				r.Representative, r.Drivers.Acronyms())
		}
	}
	return nil
}
