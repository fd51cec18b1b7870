// Command springboard is a small CLI around the Springboard client library:
// it exports whole collections as JSON lines and fetches single pages by
// cursor. Tenant credentials come from flags or a TOML config file.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/retailkit/springboard-client/pkg/logging"
)

type rootOptions struct {
	configPath string
	subdomain  string
	token      string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "springboard",
		Short:        "Iterate over Springboard Retail collections",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.LevelWarn
			if opts.verbose {
				level = logging.LevelDebug
			}
			logging.Setup(logging.Config{
				Level:  level,
				Pretty: true,
				Output: os.Stderr,
			})
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (default: user config dir)")
	cmd.PersistentFlags().StringVar(&opts.subdomain, "subdomain", "", "tenant subdomain, e.g. acme for acme.myspringboard.us")
	cmd.PersistentFlags().StringVar(&opts.token, "token", "", "bearer token (prompted when omitted)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newPageCmd(opts))

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
