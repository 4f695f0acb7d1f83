package cmd

import (
	"fmt"
	"os"

	"github.com/JustJay7/consumer-case-tracker/internal/jagriti"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(commissionsCmd)
}

var commissionsCmd = &cobra.Command{
	Use:   "commissions <state id or name>",
	Short: "Lists the district commissions of a state. The state may be given by id or approximate name.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		region, err := lookupRegion(cmd, args[0])
		if err != nil {
			return err
		}

		list, err := gateway.ListSubCommissions(cmd.Context(), region.RegionID)
		if err != nil {
			return err
		}
		if list.Source == jagriti.SourceFallback {
			fmt.Fprintln(os.Stderr, "upstream blocked the listing, showing fallback data")
		}
		if jsonOut {
			return printJSON(list.Items)
		}

		t := newTable()
		t.SetTitle(region.RegionName)
		t.AppendHeader(table.Row{"ID", "Commission"})
		for _, item := range list.Items {
			t.AppendRow(table.Row{item.SubCommissionID, item.SubCommissionName})
		}
		t.AppendFooter(table.Row{"Total", len(list.Items)})
		t.Render()
		return nil
	},
}

// lookupRegion passes numeric ids straight through and resolves names
// against the live region list
func lookupRegion(cmd *cobra.Command, arg string) (jagriti.Region, error) {
	if isNumeric(arg) {
		return jagriti.Region{RegionID: arg, RegionName: arg}, nil
	}

	regions, err := gateway.ListRegions(cmd.Context())
	if err != nil {
		return jagriti.Region{}, fmt.Errorf("resolving state %q: %w", arg, err)
	}
	return resolveRegion(regions, arg)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
