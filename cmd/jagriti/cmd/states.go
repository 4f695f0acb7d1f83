package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statesCmd)
}

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "Lists the state commissions and circuit benches.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		regions, err := gateway.ListRegions(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(regions)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "State"})
		for _, region := range regions {
			t.AppendRow(table.Row{region.RegionID, region.RegionName})
		}
		t.AppendFooter(table.Row{"Total", len(regions)})
		t.Render()
		return nil
	},
}
