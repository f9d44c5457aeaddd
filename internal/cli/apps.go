package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/samirrijal/mapdispatch/internal/core/domain"
	"github.com/samirrijal/mapdispatch/internal/core/usecases"
)

type appEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Installed bool   `json:"installed"`
}

func newAppsCmd(withEnv envRunner) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "apps",
		Short: "List supported navigation apps and whether they are installed",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, args []string, env *Env) error {
			available := usecases.NewAvailabilityService(env.Catalog, env.Host).AvailableApps()
			installed := make([]domain.AppID, 0, len(available))
			for _, a := range available {
				installed = append(installed, a.ID)
			}

			var entries []appEntry
			for _, a := range env.Catalog.All() {
				entries = append(entries, appEntry{
					ID:        a.ID.Slug(),
					Name:      a.Name,
					Installed: domain.Contains(installed, a.ID),
				})
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tINSTALLED")
			for _, e := range entries {
				mark := "-"
				if e.Installed {
					mark = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, e.Name, mark)
			}
			return w.Flush()
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}
