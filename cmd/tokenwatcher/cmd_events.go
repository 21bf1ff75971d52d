package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tokenwatcher/internal/api"
)

var (
	eventsWatcherID int
	eventsSymbol    string
	eventsMinUSD    float64
	eventsMaxUSD    float64
	eventsSortKey   string
	eventsLimit     int
	eventsOffset    int
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Browse transfer events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transfer events for your watchers",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := authedEnv(cmd.Context())
		if err != nil {
			return err
		}

		sort, err := parseSort(eventsSortKey)
		if err != nil {
			return err
		}
		filter := api.EventFilter{
			WatcherID:   eventsWatcherID,
			TokenSymbol: eventsSymbol,
			MinUSD:      eventsMinUSD,
			MaxUSD:      eventsMaxUSD,
			Sort:        sort,
			Limit:       eventsLimit,
			Offset:      eventsOffset,
		}

		list, err := e.client.ListEvents(cmd.Context(), e.manager.Token(), filter)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tTOKEN\tFROM\tTO\tAMOUNT\tUSD\tBLOCK")
		for _, ev := range list {
			usd := "-"
			if ev.USDValue != nil {
				usd = fmt.Sprintf("$%.2f", *ev.USDValue)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4f\t%s\t%d\n",
				ev.CreatedAt.Format("2006-01-02 15:04"),
				ev.TokenSymbol, ev.FromAddress, ev.ToAddress, ev.Amount, usd, ev.BlockNumber)
		}
		return w.Flush()
	},
}

var eventsSymbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "List the distinct token symbols seen across your events",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := authedEnv(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range e.client.DistinctTokenSymbols(cmd.Context(), e.manager.Token()) {
			fmt.Println(s)
		}
		return nil
	},
}

func parseSort(key string) (api.EventSort, error) {
	switch key {
	case "", "newest":
		return api.SortNewest, nil
	case "oldest":
		return api.SortOldest, nil
	case "usd":
		return api.SortValueUSD, nil
	case "block":
		return api.SortBlock, nil
	}
	return "", fmt.Errorf("unknown sort %q (newest, oldest, usd, block)", key)
}

func init() {
	eventsListCmd.Flags().IntVar(&eventsWatcherID, "watcher", 0, "only events for this watcher id")
	eventsListCmd.Flags().StringVar(&eventsSymbol, "symbol", "", "only events for this token symbol")
	eventsListCmd.Flags().Float64Var(&eventsMinUSD, "min-usd", 0, "minimum USD value")
	eventsListCmd.Flags().Float64Var(&eventsMaxUSD, "max-usd", 0, "maximum USD value")
	eventsListCmd.Flags().StringVar(&eventsSortKey, "sort", "newest", "sort order: newest, oldest, usd, block")
	eventsListCmd.Flags().IntVar(&eventsLimit, "limit", 25, "page size")
	eventsListCmd.Flags().IntVar(&eventsOffset, "offset", 0, "page offset")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsSymbolsCmd)
}
