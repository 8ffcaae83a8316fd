package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"fpick/internal/mediascan"
	"fpick/internal/worker"

	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command
func NewScanCmd() *cobra.Command {
	var (
		list    bool
		dbPath  string
		history int
	)

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Feed a file or a folder tree to the media index",
		Long: `Index path and everything below it, sniffing the type of each file.
The scan succeeds only when every entry was indexed. With --db the index
and the scan history are kept in a SQLite file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = cfg.Scan.DB
			}
			var store *mediascan.Store
			if dbPath != "" {
				var err error
				if store, err = mediascan.OpenStore(dbPath); err != nil {
					return err
				}
				defer store.Close()
			}
			if history > 0 {
				if store == nil {
					return fmt.Errorf("--history needs a media store, see --db")
				}
				return printHistory(cmd, store, history)
			}

			path := cwd()
			if len(args) > 0 {
				path = args[0]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fs := newFs()
			index := mediascan.NewMimeIndex(fs)
			var indexer mediascan.Indexer = index
			var scanID string
			if store != nil {
				indexer = mediascan.NewStoredIndex(index, store)
				var err error
				if scanID, err = store.BeginScan(ctx, path); err != nil {
					return err
				}
			}

			loop := worker.NewDispatcher(1)
			defer loop.Close()
			go loop.Run(ctx)

			type outcome struct {
				path string
				ok   bool
			}
			done := make(chan outcome, 1)
			scanner := mediascan.NewScanner(fs, indexer, loop,
				mediascan.WithWorkers(cfg.Scan.Workers),
				mediascan.WithDepth(cfg.Scan.Depth))

			total, err := scanner.Scan(ctx, path, func(p string, ok bool) {
				done <- outcome{p, ok}
			})
			if err != nil {
				if store != nil {
					store.FinishScan(ctx, scanID, 0, false)
				}
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, infoText(fmt.Sprintf("Scanning %d entries in %s", total, path)))

			var res outcome
			select {
			case res = <-done:
			case <-ctx.Done():
				return ctx.Err()
			}

			if store != nil {
				if err := store.FinishScan(ctx, scanID, total, res.ok); err != nil {
					return err
				}
			}
			if list {
				printIndex(cmd, index)
			}
			if !res.ok {
				return fmt.Errorf("scan incomplete: %d of %d entries indexed in %s", index.Len(), total, res.path)
			}
			fmt.Fprintln(out, successText(fmt.Sprintf("Indexed %d entries in %s", index.Len(), res.path)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "print the type found for each entry")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file keeping the media index (default from scan.db)")
	cmd.Flags().IntVar(&history, "history", 0, "print the latest N scans recorded in the store and exit")
	return cmd
}

func printIndex(cmd *cobra.Command, index *mediascan.MimeIndex) {
	snapshot := index.Snapshot()
	paths := make([]string, 0, len(snapshot))
	for p := range snapshot {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		line := fmt.Sprintf("%-28s %s", snapshot[p], p)
		if media, ok := index.Media(p); ok && !media.Taken.IsZero() {
			line += mutedText(fmt.Sprintf("  taken %s %s", media.Taken.Format(timeLayout), media.Camera))
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}

func printHistory(cmd *cobra.Command, store *mediascan.Store, limit int) error {
	scans, err := store.Scans(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, s := range scans {
		status := scanState(s)
		fmt.Fprintf(out, "%s  %s  %6d  %-10s %s\n", s.ID[:8], s.Started.Local().Format(timeLayout), s.Total, status, s.Root)
	}
	return nil
}

func scanState(s mediascan.ScanRecord) string {
	switch {
	case s.Finished.IsZero():
		return "running"
	case s.OK:
		return successText("ok")
	default:
		return errorText("incomplete")
	}
}
