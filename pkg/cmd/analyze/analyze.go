package analyze

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/openf1-analysis/log"
	"github.com/mpapenbr/openf1-analysis/pkg/cmd/util"
)

var quiet bool

func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze sessionKey [sessionKey...]",
		Short: "computes the qualifying runs of practice sessions",
		Long: `Fetches laps and stints of each session, matches every lap with its stint
and keeps the laps driven at qualifying pace. The results are stored in the
analysis store (categories combined, scored and qualifying_runs).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := make([]int, 0, len(args))
			for _, a := range args {
				k, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("invalid session key %q", a)
				}
				keys = append(keys, k)
			}
			return analyzeSessions(cmd, keys)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the results")
	return cmd
}

func analyzeSessions(cmd *cobra.Command, keys []int) error {
	ctx := cmd.Context()
	env, err := util.NewEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	analyzer := util.NewAnalyzer(env)
	for _, key := range keys {
		res, err := analyzer.Analyze(ctx, key)
		if err != nil {
			log.Error("analysis failed", log.Int("sessionKey", key), log.ErrorField(err))
			return err
		}
		if !quiet {
			util.RenderLeaderboard(cmd.OutOrStdout(),
				fmt.Sprintf("Qualifying runs session %d", key),
				res.Representative, res.Drivers.Acronyms())
		}
	}
	return nil
}
