package fetch

import (
	"github.com/spf13/cobra"

	"github.com/mpapenbr/openf1-analysis/log"
	"github.com/mpapenbr/openf1-analysis/pkg/cmd/util"
	"github.com/mpapenbr/openf1-analysis/pkg/openf1"
)

var printRows bool

func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch endpoint [filter...]",
		Short: "fetches an OpenF1 endpoint and stores the result",
		Long: `Filters are given as field=value or with a comparison operator like
date_start>=2025-03-13. Only fields known for the endpoint are accepted.
The result is stored in the cache store with the endpoint as category.`,
		Example: `  ofa fetch laps session_key=9158 driver_number=1
  ofa fetch sessions "date_start>=2025-03-13" "date_end<=2025-09-28"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchEndpoint(cmd, args[0], args[1:])
		},
	}
	cmd.Flags().BoolVar(&printRows, "print", false, "print the fetched rows")
	return cmd
}

func fetchEndpoint(cmd *cobra.Command, endpoint string, filters []string) error {
	ctx := cmd.Context()
	params, err := openf1.ParseFilters(filters)
	if err != nil {
		return err
	}
	if err = openf1.ValidateRequest(endpoint, params); err != nil {
		return err
	}
	env, err := util.NewEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	rows, err := env.Fetcher.Fetch(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if err := env.Raw.Store(ctx, rows, endpoint, params.Name()); err != nil {
		return err
	}
	log.Info("fetched", log.String("endpoint", endpoint), log.Int("rows", len(rows)))
	if printRows {
		util.RenderTable(cmd.OutOrStdout(), endpoint, rows)
	}
	return nil
}
