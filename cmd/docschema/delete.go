package main

import (
	"fmt"

	"github.com/fwojciec/docschema"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return docschema.Errorf(docschema.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Records.DeleteRecord(deps.Ctx, c.ID); err != nil {
		if docschema.ErrorCode(err) == docschema.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: record %q not found. Use 'docschema list' to see stored records.\n", c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", docschema.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted record %q\n", c.ID)
	return nil
}
