package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tokenwatcher/internal/types"
)

var (
	watcherName      string
	watcherAddress   string
	watcherThreshold float64
	watcherWebhook   string
)

var watchersCmd = &cobra.Command{
	Use:   "watchers",
	Short: "Manage token watchers",
}

// authedEnv builds the stack and resolves the stored session, failing when
// there is none.
func authedEnv(ctx context.Context) (*env, error) {
	e, err := newEnv()
	if err != nil {
		return nil, err
	}
	e.manager.Bootstrap(ctx)
	if !e.manager.Snapshot().IsAuthenticated() {
		return nil, fmt.Errorf("not signed in; run `tokenwatcher login`")
	}
	return e, nil
}

var watchersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your watchers",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := authedEnv(cmd.Context())
		if err != nil {
			return err
		}

		watchers, err := e.client.ListWatchers(cmd.Context(), e.manager.Token())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTOKEN\tTHRESHOLD\tWEBHOOK\tACTIVE")
		for _, wa := range watchers {
			webhook := "-"
			if wa.WebhookURL != nil && *wa.WebhookURL != "" {
				webhook = *wa.WebhookURL
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t$%.2f\t%s\t%t\n",
				wa.ID, wa.Name, wa.TokenAddress, wa.ThresholdUSD, webhook, wa.IsActive)
		}
		return w.Flush()
	},
}

var watchersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a watcher",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := authedEnv(cmd.Context())
		if err != nil {
			return err
		}

		in := types.CreateWatcherInput{
			Name:         watcherName,
			TokenAddress: watcherAddress,
			ThresholdUSD: watcherThreshold,
			WebhookURL:   watcherWebhook,
		}
		if err := in.Validate(); err != nil {
			return err
		}

		logger.Debug("creating watcher", zap.String("name", in.Name))
		created, err := e.client.CreateWatcher(cmd.Context(), e.manager.Token(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Created watcher %d (%s)\n", created.ID, created.Name)
		return nil
	},
}

var watchersUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a watcher; only the flags you pass change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid watcher id %q", args[0])
		}

		e, err := authedEnv(cmd.Context())
		if err != nil {
			return err
		}

		var in types.UpdateWatcherInput
		if cmd.Flags().Changed("name") {
			in.Name = &watcherName
		}
		if cmd.Flags().Changed("address") {
			in.TokenAddress = &watcherAddress
		}
		if cmd.Flags().Changed("threshold") {
			in.ThresholdUSD = &watcherThreshold
		}
		if cmd.Flags().Changed("webhook") {
			in.WebhookURL = &watcherWebhook
		}
		if err := in.Validate(); err != nil {
			return err
		}

		updated, err := e.client.UpdateWatcher(cmd.Context(), e.manager.Token(), id, in)
		if err != nil {
			return err
		}
		fmt.Printf("Updated watcher %d (%s)\n", updated.ID, updated.Name)
		return nil
	},
}

var watchersDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a watcher",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid watcher id %q", args[0])
		}

		e, err := authedEnv(cmd.Context())
		if err != nil {
			return err
		}
		if err := e.client.DeleteWatcher(cmd.Context(), e.manager.Token(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted watcher %d\n", id)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{watchersCreateCmd, watchersUpdateCmd} {
		cmd.Flags().StringVar(&watcherName, "name", "", "display name")
		cmd.Flags().StringVar(&watcherAddress, "address", "", "ERC-20 contract address (0x...)")
		cmd.Flags().Float64Var(&watcherThreshold, "threshold", 0, "USD threshold that triggers a notification")
		cmd.Flags().StringVar(&watcherWebhook, "webhook", "", "webhook URL to notify")
	}
	_ = watchersCreateCmd.MarkFlagRequired("name")
	_ = watchersCreateCmd.MarkFlagRequired("address")
	_ = watchersCreateCmd.MarkFlagRequired("webhook")

	watchersCmd.AddCommand(watchersListCmd)
	watchersCmd.AddCommand(watchersCreateCmd)
	watchersCmd.AddCommand(watchersUpdateCmd)
	watchersCmd.AddCommand(watchersDeleteCmd)
}
