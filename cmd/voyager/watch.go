package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/starwatch/voyager/internal/config"
	"github.com/starwatch/voyager/internal/logging"
	"github.com/starwatch/voyager/internal/session"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Backfill and tail a commander's journal log",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringP("dir", "d", "", "directory of journal files")
	watchCmd.Flags().StringP("file", "f", "", "pin a specific journal file instead of watching a directory")
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logging.Info("shutting down")
		cancel()
	}()

	go reportProgress(ctx, sess)

	if file != "" {
		logging.Info("watching journal file", logging.F("path", file))
		return sess.WatchFile(ctx, file)
	}
	logging.Info("watching journal directory", logging.F("dir", dir))
	return sess.Watch(ctx, dir)
}

// reportProgress logs a line on every system_changed notification,
// giving an operator watching stderr a sense of forward progress
// without needing a full presentation layer.
func reportProgress(ctx context.Context, sess *session.Session) {
	ch := sess.Subscribe(session.SystemChanged)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			st := sess.State()
			if st.CurrentSystem == nil {
				continue
			}
			logging.Info("system updated",
				logging.F("system", st.CurrentSystem.Name),
				logging.F("bodies", humanize.Comma(int64(len(st.CurrentSystem.Bodies)))),
			)
		}
	}
}
