package cmd

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [text...]",
		Short: "Resolve one message and print the outcome as JSON",
		Long:  "Arguments are joined with spaces. Without arguments the message is read from stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = string(b)
			}

			r, err := opts.resolver()
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			return enc.Encode(r.Resolve(text))
		},
	}
}
