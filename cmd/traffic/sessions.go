package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-traffic/internal/platform/tui"
	"github.com/vovakirdan/tui-traffic/internal/storage"
)

var (
	flagSessionsLimit int
	flagBrowse        bool
	flagClearSessions bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show recorded sessions",
	Long: `Display the most recent recorded simulation runs together with
per-density aggregates.

Examples:
  traffic sessions
  traffic sessions --limit 50
  traffic sessions --browse     # interactive table
  traffic sessions --clear      # delete all records`,
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&flagSessionsLimit, "limit", 10, "Number of sessions to show")
	sessionsCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Open the interactive session browser")
	sessionsCmd.Flags().BoolVar(&flagClearSessions, "clear", false, "Delete all recorded sessions")
}

func runSessions(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open sessions database: %w", err)
	}
	defer store.Close()

	if flagClearSessions {
		if err := store.ClearSessions(); err != nil {
			return err
		}
		fmt.Println("All recorded sessions deleted.")
		return nil
	}

	if flagBrowse {
		width, height := 100, 30
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		return tui.RunSessions(store, width, height)
	}

	sessions, err := store.RecentSessions(flagSessionsLimit)
	if err != nil {
		return err
	}

	fmt.Println("Recorded sessions")
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'traffic run' or 'traffic simulate' to record one.")
		return nil
	}

	fmt.Printf("  %-5s  %-16s  %-10s  %-8s  %-8s  %-7s  %s\n",
		"ID", "Date", "Density", "Ticks", "Spawned", "Exited", "Avg km/h")
	fmt.Printf("  %-5s  %-16s  %-10s  %-8s  %-8s  %-7s  %s\n",
		"--", "----", "-------", "-----", "-------", "------", "--------")

	for _, s := range sessions {
		fmt.Printf("  %-5d  %-16s  %-10s  %-8d  %-8d  %-7d  %.1f\n",
			s.ID,
			s.CreatedAt.Format("2006-01-02 15:04"),
			s.Density,
			s.Ticks,
			s.Spawned,
			s.Exited,
			s.AvgSpeed*3.6,
		)
	}

	stats, err := store.StatsByDensity()
	if err != nil || len(stats) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("By density:")
	for _, d := range stats {
		fmt.Printf("  %-10s  %d runs, %d spawned, %.1f km/h avg\n",
			d.Density, d.SessionCount, d.TotalSpawned, d.AvgSpeed*3.6)
	}
	return nil
}
