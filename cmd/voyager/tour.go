package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starwatch/voyager/internal/config"
	"github.com/starwatch/voyager/internal/export"
	"github.com/starwatch/voyager/internal/logging"
	"github.com/starwatch/voyager/internal/session"
)

var tourCmd = &cobra.Command{
	Use:   "tour",
	Short: "Plan a visiting order over the current system's medium/high value bodies",
	Args:  cobra.NoArgs,
	RunE:  runTour,
}

func init() {
	rootCmd.AddCommand(tourCmd)
	tourCmd.Flags().StringP("dir", "d", "", "directory of journal files to backfill before planning")
	tourCmd.Flags().StringP("file", "f", "", "pin a specific journal file to backfill before planning")
}

func runTour(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	file, _ := cmd.Flags().GetString("file")
	if dir == "" && file == "" {
		return fmt.Errorf("one of --dir or --file is required")
	}

	logging.SetLogger(newLogger(cmd))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	dbPath, _ := cmd.Root().PersistentFlags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}

	sess, err := session.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening store at %s: %w", dbPath, err)
	}
	defer sess.Close()

	if file != "" {
		err = sess.BackfillFile(file)
	} else {
		err = sess.Backfill(dir)
	}
	if err != nil {
		return fmt.Errorf("backfilling journal: %w", err)
	}

	groups := sess.TourPlan()
	out, err := export.RenderYAML(export.Tour(groups))
	if err != nil {
		return fmt.Errorf("rendering tour: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
