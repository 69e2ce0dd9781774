package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"pricewatch/internal/envutil"
	"pricewatch/internal/logs"
	"pricewatch/internal/producturl"
	"pricewatch/internal/shop"
)

type rootOptions struct {
	shopsFile string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "pricewatch",
		Short:         "Resolve shop product links and check service wiring",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.shopsFile, "shops-file", envutil.String(os.Getenv, "SHOPS_FILE", ""), "Shop catalog YAML/JSON (built-in shops when empty)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", envutil.Bool(os.Getenv, "PRICEWATCH_VERBOSE", false), "Log resolver diagnostics to stderr")

	rootCmd.AddCommand(
		newResolveCmd(opts),
		newImportCmd(opts),
		newShopsCmd(opts),
		newDoctorCmd(opts),
	)
	return rootCmd
}

func (o *rootOptions) registry() (*shop.Registry, error) {
	if o.shopsFile == "" {
		return shop.NewDefaultRegistry()
	}
	defs, err := shop.LoadFile(o.shopsFile)
	if err != nil {
		return nil, err
	}
	return shop.NewRegistry(defs)
}

func (o *rootOptions) resolver() (*producturl.Resolver, error) {
	reg, err := o.registry()
	if err != nil {
		return nil, err
	}

	logger, err := logs.NewCLILogger(o.verbose)
	if err != nil {
		return nil, err
	}
	return producturl.NewResolver(producturl.NewResolverParams{Registry: reg, Logger: logger}), nil
}
