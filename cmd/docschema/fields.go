package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/docschema"
)

// Run executes the fields command.
func (c *FieldsCmd) Run(deps *Dependencies) error {
	set := deps.Fields.Load()

	tw := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	for _, f := range docschema.Fields() {
		enabled := f.Name == docschema.FieldID || f.Name == docschema.FieldSKU || docschema.Enabled(set, f.Name)
		if c.Enabled && !enabled {
			continue
		}
		mark := " "
		if enabled {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, f.Name, f.Kind, f.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if set.IsEmpty() {
		fmt.Fprintln(deps.Stdout, "\nNo field list loaded: every field is enabled.")
	}
	return nil
}
