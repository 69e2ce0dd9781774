package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pricewatch/internal/producturl"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var file, xlsxPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Resolve one message per line and print a tab-separated report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(file) == "" {
				_ = cmd.Help()
				return errUsage
			}

			var in io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			r, err := opts.resolver()
			if err != nil {
				return err
			}

			if xlsxPath == "" {
				return runImport(r, in, cmd.OutOrStdout(), cmd.ErrOrStderr(), nil)
			}

			rep, err := newXLSXReport()
			if err != nil {
				return err
			}
			if err := runImport(r, in, cmd.OutOrStdout(), cmd.ErrOrStderr(), rep.Add); err != nil {
				_ = rep.file.Close()
				return err
			}
			return rep.Save(xlsxPath)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", `Input file, one message per line ("-" for stdin)`)
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the report to this .xlsx workbook")
	return cmd
}

// runImport prints one TSV row per non-blank line and a per-kind summary on
// errOut. onRow, when set, sees every row as well.
func runImport(r *producturl.Resolver, in io.Reader, out, errOut io.Writer, onRow func(line int, o producturl.Outcome) error) error {
	counts := map[producturl.Kind]int{}
	total := 0

	fmt.Fprintln(out, "line\tkind\tshop\tcanonical_url\tfingerprint")

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		o := r.Resolve(line)
		counts[o.Kind]++
		total++
		fmt.Fprintf(out, "%d\t%s\t%s\t%s\t%s\n", lineNo, o.Kind, o.Shop, o.CanonicalURL, o.Fingerprint)
		if onRow != nil {
			if err := onRow(lineNo, o); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	fmt.Fprintf(errOut, "processed %d lines", total)
	for _, k := range producturl.Kinds() {
		fmt.Fprintf(errOut, " %s=%d", k, counts[k])
	}
	fmt.Fprintln(errOut)
	return nil
}
