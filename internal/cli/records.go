package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kishore-freak653/CRUD-Application/internal/apiclient"
)

// RecordOptions holds the record attribute flags of add and edit.
type RecordOptions struct {
	*RootOptions
	Input apiclient.Input
}

func addRecordFlags(cmd *cobra.Command, opts *RecordOptions) {
	cmd.Flags().StringVar(&opts.Input.Name, "name", "", "person name")
	cmd.Flags().StringVar(&opts.Input.Age, "age", "", "age")
	cmd.Flags().StringVar(&opts.Input.City, "city", "", "city of residence")
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record",
		Long: `Add a record. All of --name, --age and --city are required by the server.

Example:
  userctl add --name Ann --age 31 --city Paris`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			id, err := c.Create(cmd.Context(), &opts.Input)
			if out.Warning(err) {
				return errRejected
			}
			if err != nil {
				return err
			}
			return out.Message(fmt.Sprintf("User detail added successfully (id %d)", id), map[string]int64{"id": id})
		},
	}
	addRecordFlags(cmd, opts)
	return cmd
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace a record's attributes",
		Long: `Replace every attribute of a record.

Example:
  userctl edit 3 --name Ann --age 32 --city Lyon`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			err = c.Update(cmd.Context(), id, &opts.Input)
			if out.Warning(err) {
				return errRejected
			}
			if err != nil {
				return err
			}
			return out.Message("User detail updated successfully", map[string]int64{"id": id})
		},
	}
	addRecordFlags(cmd, opts)
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record and print the remaining ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := rootOpts.client()
			if err != nil {
				return err
			}
			list, err := c.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return out.Users(list)
		},
	}
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}
