package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/w2sv/filenavigator/core/config"
	"github.com/w2sv/filenavigator/core/history"
	"github.com/w2sv/filenavigator/core/storage"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the move history",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no moves recorded")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tFILE\tTYPE\tSOURCE\tDESTINATION\tAUTO")
		for _, entry := range entries {
			auto := ""
			if entry.AutoMoved {
				auto = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				entry.MovedAt.Format("2006-01-02 15:04"),
				entry.FileName, entry.FileType, entry.SourceType,
				entry.Destination, auto)
		}
		return w.Flush()
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the entire move history",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()
		return store.DeleteAll()
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "maximum entries to show")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*history.Store, error) {
	dirs := storage.ResolveDirs()
	manager := config.NewManager(dirs, slog.Default())
	if err := manager.Load(); err != nil {
		return nil, err
	}

	path := manager.Get().History.DatabasePath
	if path == "" {
		path = dirs.DataFile("history.db")
	}
	return history.Open(path)
}
