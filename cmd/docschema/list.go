package main

import (
	"fmt"

	"github.com/fwojciec/docschema"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := docschema.RecordFilter{Offset: c.Offset, Limit: c.Limit}
	if c.Host != "" {
		filter.Host = &c.Host
	}

	records, err := deps.Records.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docschema.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No records found. Use 'docschema index' to add some.")
		return nil
	}

	for _, rec := range records {
		sku, _ := rec.Get(docschema.FieldSKU)
		title, _ := rec.Get(docschema.FieldTitle)
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", rec.ID(), sku.Str(), title.Str())
	}

	return nil
}
