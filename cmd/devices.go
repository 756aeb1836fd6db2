package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/careconnect-ai/careconnect/internal/catalog"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the devices the wizard can discover",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		lookup, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		categories := catalog.Categories()
		if c, _ := cmd.Flags().GetString("category"); c != "" {
			cat, err := catalog.ParseCategory(c)
			if err != nil {
				return err
			}
			categories = []catalog.Category{cat}
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			out := make(map[catalog.Category][]catalog.Candidate, len(categories))
			for _, c := range categories {
				out[c] = lookup.Candidates(c)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		w := cmd.OutOrStdout()
		for i, c := range categories {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s\n", c.DisplayName())
			fmt.Fprintf(w, "%-6s %-26s %-12s %s\n", "ID", "Name", "Family", "Signal")
			fmt.Fprintln(w, strings.Repeat("─", 56))
			for _, d := range lookup.Candidates(c) {
				fmt.Fprintf(w, "%-6s %-26s %-12s %s\n", d.ID, d.DisplayName, d.Family, d.Signal)
			}
		}
		return nil
	},
}

func init() {
	devicesCmd.Flags().String("category", "", "Only list one category: fitbit, applewatch, other")
	devicesCmd.Flags().Bool("json", false, "Print as JSON")
}
