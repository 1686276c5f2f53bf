package cli

import (
	"github.com/spf13/cobra"

	"github.com/kishore-freak653/CRUD-Application/internal/storage/users"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Search string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records",
		Long: `List every record, optionally filtered by name or city.

The filter is applied locally and ignores case.

Example:
  userctl list --search paris`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			list, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return out.Users(users.Filter(list, opts.Search))
		},
	}
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "only show records whose name or city contains this text")
	return cmd
}
