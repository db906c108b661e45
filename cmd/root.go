package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	analyzeCmd "github.com/mpapenbr/openf1-analysis/pkg/cmd/analyze"
	endpointsCmd "github.com/mpapenbr/openf1-analysis/pkg/cmd/endpoints"
	fetchCmd "github.com/mpapenbr/openf1-analysis/pkg/cmd/fetch"
	migrateCmd "github.com/mpapenbr/openf1-analysis/pkg/cmd/migrate"
	seasonCmd "github.com/mpapenbr/openf1-analysis/pkg/cmd/season"
	"github.com/mpapenbr/openf1-analysis/pkg/cmd/util"
	"github.com/mpapenbr/openf1-analysis/pkg/config"
	"github.com/mpapenbr/openf1-analysis/pkg/openf1"
	"github.com/mpapenbr/openf1-analysis/pkg/processing/reconcile"
	"github.com/mpapenbr/openf1-analysis/pkg/processing/score"
	"github.com/mpapenbr/openf1-analysis/version"
)

const envPrefix = "OFA"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "ofa",
	Short:   "Qualifying pace analysis of F1 practice sessions based on OpenF1 data",
	Long:    ``,
	Version: version.FullVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_, err := util.SetupLogger()
		return err
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:funlen // flag definitions
func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.ofa.yml)")

	pf.StringVar(&config.LogLevel, "log-level", "info",
		"controls the log level (debug, info, warn, error, fatal)")
	pf.StringVar(&config.SQLLogLevel, "sql-log-level", "info",
		"controls the log level for sql statements")
	pf.StringVar(&config.LogFormat, "log-format", "text",
		"controls the log output format (json, text)")
	pf.StringVar(&config.LogFilter, "log-filter", "",
		"zapfilter rules (e.g. \"info+:* debug:*,-openf1.throttle\")")

	pf.StringVar(&config.BaseURL, "base-url", openf1.DefaultBaseURL,
		"base URL of the OpenF1 API")
	pf.DurationVar(&config.MinRequestInterval, "min-request-interval",
		openf1.DefaultMinRequestInterval,
		"minimum time between two API requests")
	pf.IntVar(&config.MaxRetries, "max-retries", 0,
		"retries for temporary API errors (0 disables retries)")
	pf.DurationVar(&config.RequestTimeout, "request-timeout",
		openf1.DefaultRequestTimeout,
		"timeout of a single API request")
	pf.DurationVar(&config.ResponseCacheTTL, "response-cache-ttl", 5*time.Minute,
		"serve identical requests from memory for this duration (0 disables)")

	pf.StringVar(&config.Store, "store", config.StoreFile,
		"where tables are stored (file, postgres)")
	pf.StringVar(&config.CacheDir, "cache-dir", "cache",
		"directory for fetched tables and the time of the last request")
	pf.StringVar(&config.AnalysisDir, "analysis-dir", "analyses",
		"directory for analysis results")
	pf.StringVar(&config.DB, "db",
		"postgresql://DB_USERNAME:DB_USER_PASSWORD@DB_HOST:5432/openf1",
		"Connection string for the database")
	pf.StringVar(&config.WaitForServices, "wait-for-services", "15s",
		"Duration to wait for other services to be ready")
	pf.BoolVar(&config.SessionContext, "session-context", false,
		"also store drivers and weather of analyzed sessions")

	th := score.DefaultThresholds()
	pf.IntVar(&config.KeyMargin, "key-margin", reconcile.DefaultKeyMargin,
		"safety margin of the lap ordering key")
	pf.Float64Var(&config.MaxTimeGap, "max-time-gap", th.MaxTimeGap,
		"max gap to the own best lap in percent")
	pf.Float64Var(&config.MaxSectorGap, "max-sector-gap", th.MaxSectorGap,
		"max gap to the stint best sector in percent")
	pf.IntVar(&config.MinFastSectors, "min-fast-sectors", th.MinFastSectors,
		"number of fast sectors required")
	pf.Float64Var(&config.MaxSpeedDelta, "max-speed-delta", th.MaxSpeedDelta,
		"speed trap delta to the own best must be greater than this (percent)")
	pf.IntVar(&config.RoundPlaces, "round-places", int(th.RoundPlaces),
		"decimal places of derived values")

	// add commands here
	rootCmd.AddCommand(analyzeCmd.NewAnalyzeCmd())
	rootCmd.AddCommand(seasonCmd.NewSeasonCmd())
	rootCmd.AddCommand(fetchCmd.NewFetchCmd())
	rootCmd.AddCommand(endpointsCmd.NewEndpointsCmd())
	rootCmd.AddCommand(migrateCmd.NewMigrateCmd())
}

// initConfig reads in .env, config file and ENV variables if set.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Could not read .env:", err)
	}
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".ofa" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ofa")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --cache-dir to OFA_CACHE_DIR
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
