package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/kishore-freak653/CRUD-Application/internal/apiclient"
	"github.com/kishore-freak653/CRUD-Application/internal/storage/users"
)

// CLIResponse is the JSON output format.
type CLIResponse struct {
	Status  string `json:"status"` // "ok" or "error"
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// OutputFormatter handles JSON vs text output for commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Users prints records.
func (f *OutputFormatter) Users(list []users.User) error {
	if f.Format == "json" {
		if list == nil {
			list = []users.User{}
		}
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: list})
	}
	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tAGE\tCITY")
	for _, u := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Age, u.City)
	}
	return tw.Flush()
}

// Message prints a confirmation.
func (f *OutputFormatter) Message(msg string, data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Message: msg, Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, msg)
	return err
}

// Warning prints the server's rejection of an input and reports whether err
// was one. Other errors are left to the caller.
func (f *OutputFormatter) Warning(err error) bool {
	msg := apiclient.AsWarning(err)
	if msg == "" {
		return false
	}
	if f.Format == "json" {
		_ = json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "error", Message: msg})
	} else {
		fmt.Fprintln(f.Writer, "Warning:", msg)
	}
	return true
}
