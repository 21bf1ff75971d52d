package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tokenwatcher/internal/types"
)

var (
	planName     string
	planDesc     string
	planMonthly  int
	planAnnual   int
	planWatchers int
	planInactive bool
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage subscription plans (admin only)",
}

var plansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := authedEnv(cmd.Context())
		if err != nil {
			return err
		}

		plans, err := e.client.ListPlans(cmd.Context(), e.manager.Token())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tMONTHLY\tANNUAL\tWATCHERS\tACTIVE")
		for _, p := range plans {
			fmt.Fprintf(w, "%d\t%s\t$%.2f\t$%.2f\t%d\t%t\n",
				p.ID, p.Name,
				float64(p.PriceMonthly)/100, float64(p.PriceAnnual)/100,
				p.WatcherLimit, p.IsActive)
		}
		return w.Flush()
	},
}

func planInputFromFlags() types.PlanInput {
	return types.PlanInput{
		Name:         planName,
		Description:  planDesc,
		PriceMonthly: planMonthly,
		PriceAnnual:  planAnnual,
		WatcherLimit: planWatchers,
		IsActive:     !planInactive,
	}
}

var plansCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := authedEnv(cmd.Context())
		if err != nil {
			return err
		}

		in := planInputFromFlags()
		if err := in.Validate(); err != nil {
			return err
		}
		created, err := e.client.CreatePlan(cmd.Context(), e.manager.Token(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Created plan %d (%s)\n", created.ID, created.Name)
		return nil
	},
}

var plansUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid plan id %q", args[0])
		}

		e, err := authedEnv(cmd.Context())
		if err != nil {
			return err
		}

		in := planInputFromFlags()
		if err := in.Validate(); err != nil {
			return err
		}
		updated, err := e.client.UpdatePlan(cmd.Context(), e.manager.Token(), id, in)
		if err != nil {
			return err
		}
		fmt.Printf("Updated plan %d (%s)\n", updated.ID, updated.Name)
		return nil
	},
}

var plansDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid plan id %q", args[0])
		}

		e, err := authedEnv(cmd.Context())
		if err != nil {
			return err
		}

		// The Free plan is the fallback every downgraded account lands on;
		// refuse before the network call, same as the dashboard does.
		plans, err := e.client.ListPlans(cmd.Context(), e.manager.Token())
		if err != nil {
			return err
		}
		for _, p := range plans {
			if p.ID == id && p.Name == types.FreePlanName {
				return fmt.Errorf("the %s plan cannot be deleted", types.FreePlanName)
			}
		}

		if err := e.client.DeletePlan(cmd.Context(), e.manager.Token(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted plan %d\n", id)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{plansCreateCmd, plansUpdateCmd} {
		cmd.Flags().StringVar(&planName, "name", "", "plan name")
		cmd.Flags().StringVar(&planDesc, "description", "", "plan description")
		cmd.Flags().IntVar(&planMonthly, "monthly", 0, "monthly price in cents")
		cmd.Flags().IntVar(&planAnnual, "annual", 0, "annual price in cents")
		cmd.Flags().IntVar(&planWatchers, "watchers", 0, "watcher limit")
		cmd.Flags().BoolVar(&planInactive, "inactive", false, "create the plan disabled")
	}
	_ = plansCreateCmd.MarkFlagRequired("name")
	_ = plansCreateCmd.MarkFlagRequired("watchers")

	plansCmd.AddCommand(plansListCmd)
	plansCmd.AddCommand(plansCreateCmd)
	plansCmd.AddCommand(plansUpdateCmd)
	plansCmd.AddCommand(plansDeleteCmd)
}
