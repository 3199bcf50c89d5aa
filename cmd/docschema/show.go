package main

import (
	"fmt"

	"github.com/fwojciec/docschema"
	"github.com/fwojciec/docschema/fs"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	rec, err := deps.Records.FindRecordByID(deps.Ctx, c.ID)
	if err != nil {
		if docschema.ErrorCode(err) == docschema.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: record %q not found. Use 'docschema list' to see stored records.\n", c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", docschema.ErrorMessage(err))
		return err
	}

	data, err := fs.FormatRecord(rec)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docschema.ErrorMessage(err))
		return err
	}
	_, err = deps.Stdout.Write(data)
	return err
}
