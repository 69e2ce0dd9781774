package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pricewatch/internal/shop"
)

func newShopsCmd(opts *rootOptions) *cobra.Command {
	var query, output string

	cmd := &cobra.Command{
		Use:   "shops",
		Short: "List supported shops",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := opts.registry()
			if err != nil {
				return err
			}

			switch output {
			case "table":
				return printShopsTable(cmd.OutOrStdout(), reg.All(), query)
			case "yaml":
				return printShopsYAML(cmd.OutOrStdout(), reg.All())
			default:
				_ = cmd.Help()
				return errUsage
			}
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Print a search link for this title")
	cmd.Flags().StringVarP(&output, "output", "o", "table", `"table" or "yaml" (a catalog loadable with --shops-file)`)
	return cmd
}

func printShopsTable(w io.Writer, defs []shop.Definition, query string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := "NAME\tDOMAINS"
	if query != "" {
		header += "\tSEARCH"
	}
	fmt.Fprintln(tw, header)

	for _, d := range defs {
		row := d.Name + "\t" + strings.Join(d.Domains(), ",")
		if query != "" {
			row += "\t" + d.SearchURL(query)
		}
		fmt.Fprintln(tw, row)
	}
	return tw.Flush()
}

func printShopsYAML(w io.Writer, defs []shop.Definition) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(struct {
		Shops []shop.Definition `yaml:"shops"`
	}{Shops: defs}); err != nil {
		return err
	}
	return enc.Close()
}
