package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/docschema"
	"github.com/fwojciec/docschema/fs"
)

// Run executes the map command.
func (c *MapCmd) Run(deps *Dependencies) error {
	var (
		rec *docschema.Record
		err error
	)
	if c.File != "" {
		var body []byte
		body, err = os.ReadFile(c.File)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		rec, err = deps.Indexer.MapBody(deps.Ctx, c.URL, string(body), nil)
	} else {
		rec, err = deps.Indexer.IndexURL(deps.Ctx, c.URL)
	}
	if err != nil {
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
