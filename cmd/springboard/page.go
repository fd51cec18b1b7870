package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/retailkit/springboard-client/pkg/client"
	"github.com/retailkit/springboard-client/pkg/pagination"
)

// pageOutput is the printed shape of a single fetched page. Next is null on
// the last page; otherwise it can be fed back via --cursor to resume.
type pageOutput struct {
	Records []json.RawMessage  `json:"records"`
	Next    *pagination.Cursor `json:"next"`
}

func newPageCmd(opts *rootOptions) *cobra.Command {
	var cursorJSON string

	cmd := &cobra.Command{
		Use:   "page <path>",
		Short: "Fetch a single page of a collection",
		Long: `Page fetches exactly one page. Without --cursor it fetches page 1 and
prints the cursor for page 2; pass that cursor back with --cursor to continue
where the previous invocation left off, even across processes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, err := resolveTenant(opts)
			if err != nil {
				return err
			}

			p := pagination.New(client.New(client.DefaultConfig()))

			var result *pagination.PageResult
			if cursorJSON == "" {
				result, err = p.FirstPage(cmd.Context(), tenant, args[0])
			} else {
				var cursor pagination.Cursor
				if uerr := json.Unmarshal([]byte(cursorJSON), &cursor); uerr != nil {
					return fmt.Errorf("parse cursor: %w", uerr)
				}
				result, err = p.Page(cmd.Context(), tenant, cursor)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(pageOutput{Records: result.Records, Next: result.Next})
		},
	}

	cmd.Flags().StringVar(&cursorJSON, "cursor", "", "JSON cursor from a previous invocation")

	return cmd
}
