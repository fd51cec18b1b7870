package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/retailkit/springboard-client/pkg/client"
	"github.com/retailkit/springboard-client/pkg/pagination"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Stream every record of a collection as JSON lines",
		Long: `Export walks a page-numbered collection (for example "items" or
"purchasing/vendors") and writes one compact JSON record per line to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, err := resolveTenant(opts)
			if err != nil {
				return err
			}

			p := pagination.New(client.New(client.DefaultConfig()))
			out := json.NewEncoder(os.Stdout)

			exported := 0
			err = p.EachRecord(cmd.Context(), tenant, args[0], func(record json.RawMessage) (bool, error) {
				if err := out.Encode(record); err != nil {
					return false, err
				}
				exported++
				return limit > 0 && exported >= limit, nil
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "exported %d record(s)\n", exported)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many records (0 = all)")

	return cmd
}
