package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/JustJay7/consumer-case-tracker/internal/jagriti"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	searchCommission string
	searchBy         string
	searchFrom       string
	searchTo         string
	searchOrderType  string
)

func init() {
	searchCmd.Flags().StringVar(&searchCommission, "commission", "", "District commission id")
	searchCmd.Flags().StringVar(&searchBy, "by", string(jagriti.ModeCaseNumber), "Search mode, one of: "+modeList())
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "Start date (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "End date (YYYY-MM-DD), defaults to today")
	searchCmd.Flags().StringVar(&searchOrderType, "order-type", jagriti.DefaultOrderType, "Order type")
	_ = searchCmd.MarkFlagRequired("commission")
	_ = searchCmd.MarkFlagRequired("from")

	rootCmd.AddCommand(searchCmd)
}

func modeList() string {
	modes := jagriti.SearchModes()
	names := make([]string, len(modes))
	for i, mode := range modes {
		names[i] = string(mode)
	}
	return strings.Join(names, ", ")
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Searches a district commission for cases with an order document.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := buildQuery(args[0], time.Now())
		if err != nil {
			return err
		}

		items, err := gateway.SearchCases(cmd.Context(), query)
		if err != nil {
			return err
		}
		if jsonOut {
			return printJSON(items)
		}

		if raw := renderCases(items); raw > 0 {
			fmt.Fprintf(stdout, "%d unrecognised element(s) omitted, use --json to see them\n", raw)
		}
		return nil
	},
}

// renderCases prints the normalized cases as a table and returns how many
// raw elements were left out of it
func renderCases(items []jagriti.SearchItem) int {
	t := newTable()
	t.AppendHeader(table.Row{"Case", "Stage", "Filed", "Complainant", "Complainant Advocate", "Respondent", "Respondent Advocate", "Document"})

	shown := 0
	for _, item := range items {
		if item.IsRaw() {
			continue
		}
		c := item.Case
		t.AppendRow(table.Row{
			c.CaseNumber,
			deref(c.CaseStage),
			deref(c.FilingDate),
			deref(c.Complainant),
			deref(c.ComplainantAdvocate),
			deref(c.Respondent),
			deref(c.RespondentAdvocate),
			deref(c.DocumentLink),
		})
		shown++
	}
	t.AppendFooter(table.Row{"Total", shown})
	t.Render()
	return len(items) - shown
}

func buildQuery(term string, now time.Time) (jagriti.SearchQuery, error) {
	mode, err := jagriti.ParseSearchMode(searchBy)
	if err != nil {
		return jagriti.SearchQuery{}, err
	}

	from, err := time.Parse(jagriti.DateLayout, searchFrom)
	if err != nil {
		return jagriti.SearchQuery{}, fmt.Errorf("invalid --from: %w", err)
	}

	to := now
	if searchTo != "" {
		to, err = time.Parse(jagriti.DateLayout, searchTo)
		if err != nil {
			return jagriti.SearchQuery{}, fmt.Errorf("invalid --to: %w", err)
		}
	}

	return jagriti.SearchQuery{
		SubCommissionID: searchCommission,
		SearchTerm:      term,
		Mode:            mode,
		DateFrom:        from,
		DateTo:          to,
		OrderType:       searchOrderType,
	}, nil
}
