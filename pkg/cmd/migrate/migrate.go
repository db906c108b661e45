package migrate

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/openf1-analysis/log"
	"github.com/mpapenbr/openf1-analysis/pkg/config"
	dbmigrate "github.com/mpapenbr/openf1-analysis/pkg/db/migrate"
	"github.com/mpapenbr/openf1-analysis/pkg/utils"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "performs database migration for the postgres store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startMigration(cmd)
		},
	}
	return cmd
}

func startMigration(cmd *cobra.Command) error {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	postgresAddr := utils.ExtractFromDBURL(config.DB)
	if postgresAddr == "" {
		return fmt.Errorf("invalid database url")
	}
	if err = utils.WaitForTCP(cmd.Context(), postgresAddr, timeout); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	dbURL := prepareURLForDB(config.DB)
	if err := dbmigrate.MigrateDB(dbURL); err != nil {
		return err
	}
	version, dirty, ok, err := dbmigrate.Version(dbURL)
	if err != nil {
		return err
	}
	if ok {
		log.Info("Database schema", log.Uint("version", version), log.Bool("dirty", dirty))
	}
	return nil
}

func prepareURLForDB(url string) string {
	options := "sslmode=disable"
	if strings.Contains(url, "sslmode=") {
		return url
	}
	if strings.Contains(url, "?") {
		return fmt.Sprintf("%s&%s", url, options)
	}
	return fmt.Sprintf("%s?%s", url, options)
}
