package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/arisan/internal/finance"
	"github.com/mmynk/arisan/internal/lottery"
	"github.com/mmynk/arisan/internal/models"
)

func (a *app) resolver() (*finance.Resolver, error) {
	amount, err := a.cfg.Finance.MainAmount()
	if err != nil {
		return nil, err
	}
	return finance.NewResolver(a.store, finance.DefaultSettings(amount)), nil
}

// monthFlag returns the parsed --month value, or the current month when unset.
func monthFlag(cmd *cobra.Command) (models.MonthKey, error) {
	s, _ := cmd.Flags().GetString("month")
	if s == "" {
		return models.MonthKeyOf(time.Now()), nil
	}
	return models.ParseMonthKey(s)
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, dirty, err := a.store.SchemaVersion()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty=%t) at %s\n", version, dirty, a.dbPath)
			return nil
		},
	}
}

func newReconcileCmd(a *app) *cobra.Command {
	var groupID string
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Create and re-price the payments of a group for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := monthFlag(cmd)
			if err != nil {
				return err
			}
			resolver, err := a.resolver()
			if err != nil {
				return err
			}
			reconciler := finance.NewReconciler(a.store, resolver, finance.MainGroupByName(a.cfg.Finance.MainGroupName))

			result, err := reconciler.Reconcile(cmd.Context(), groupID, month)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: created %d, updated %d\n", month, result.Created, result.Updated)
			return nil
		},
	}
	cmd.Flags().StringVar(&groupID, "group", "", "group ID")
	cmd.Flags().String("month", "", "month key such as 2024-7 (default current month)")
	cmd.MarkFlagRequired("group")
	return cmd
}

func newDrawCmd(a *app) *cobra.Command {
	var groupID string
	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw the next winner of a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := lottery.NewDrawer(a.store).Draw(cmd.Context(), groupID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "winner: %s (%s), %d left\n",
				outcome.Winner.Name, outcome.Winner.ID, len(lottery.Eligible(outcome.Group)))
			return nil
		},
	}
	cmd.Flags().StringVar(&groupID, "group", "", "group ID")
	cmd.MarkFlagRequired("group")
	return cmd
}

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change monthly contribution settings",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Print the effective settings of a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := monthFlag(cmd)
			if err != nil {
				return err
			}
			resolver, err := a.resolver()
			if err != nil {
				return err
			}
			resolved, err := resolver.Resolve(cmd.Context(), month)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", month, resolved.Source)
			for _, c := range resolved.Settings.Categories() {
				fmt.Fprintf(out, "  %-12s %-16s %s %s\n", c.ID, c.Label, c.Amount.StringFixed(0), a.cfg.Finance.Currency)
			}
			return nil
		},
	}
	get.Flags().String("month", "", "month key such as 2024-7 (default current month)")

	var mainAmount, cash, sick, bereavement string
	set := &cobra.Command{
		Use:   "set",
		Short: "Save the settings of a month; unset amounts are copied from the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := monthFlag(cmd)
			if err != nil {
				return err
			}
			resolver, err := a.resolver()
			if err != nil {
				return err
			}
			resolved, err := resolver.Resolve(cmd.Context(), month)
			if err != nil {
				return err
			}

			settings := *resolved.Settings
			settings.MonthKey = month.String()
			for _, f := range []struct {
				value string
				dst   *decimal.Decimal
				name  string
			}{
				{mainAmount, &settings.Main, "main"},
				{cash, &settings.Cash, "cash"},
				{sick, &settings.Sick, "sick"},
				{bereavement, &settings.Bereavement, "bereavement"},
			} {
				if f.value == "" {
					continue
				}
				d, err := decimal.NewFromString(f.value)
				if err != nil {
					return fmt.Errorf("--%s: %w", f.name, err)
				}
				*f.dst = d
			}

			if err := settings.Validate(); err != nil {
				return err
			}
			if err := a.store.SaveSettings(cmd.Context(), &settings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved settings for %s\n", month)
			return nil
		},
	}
	set.Flags().String("month", "", "month key such as 2024-7 (default current month)")
	set.Flags().StringVar(&mainAmount, "main", "", "arisan amount")
	set.Flags().StringVar(&cash, "cash", "", "kas amount")
	set.Flags().StringVar(&sick, "sick", "", "sakit amount")
	set.Flags().StringVar(&bereavement, "bereavement", "", "duka amount")

	cmd.AddCommand(get, set)
	return cmd
}
