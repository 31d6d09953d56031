package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSourcesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the configured sources and their output files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, format, err := opts.prepare()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if format == FormatJSON {
				encoder := json.NewEncoder(w)
				encoder.SetIndent("", "  ")
				return encoder.Encode(cfg.Sources)
			}

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCATEGORY\tPARSER\tFILE\tURL")
			for _, s := range cfg.Sources {
				category := s.CategoryOrDefault()
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Name, category, s.Parser, cfg.FileFor(category), s.URL)
			}
			return tw.Flush()
		},
	}
}
