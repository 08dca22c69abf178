package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwchen/argus/internal/scheduler"
	"github.com/jwchen/argus/internal/storage"
	"github.com/jwchen/argus/pkg/database"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Collect today's market into the database",
	Long: `Runs the daily collection once, outside its schedule: pulls the
full market snapshot, stores it, and tops up the bar history for every
symbol.

Example:
  go run ./cmd/argus fetch
  go run ./cmd/argus fetch --lookback 250`,
	RunE: runFetch,
}

var fetchLookback int

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().IntVar(&fetchLookback, "lookback", 120, "calendar days of history to refresh")
}

func runFetch(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	db, err := database.New(rt.cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	job := scheduler.NewCollectJob(
		rt.client,
		rt.loader,
		storage.NewPriceRepository(db.Pool),
		storage.NewSnapshotRepository(db.Pool),
		fetchLookback,
		rt.log,
	)

	if err := job.Run(cmd.Context()); err != nil {
		return err
	}
	printSuccess("daily collection finished")
	return nil
}
