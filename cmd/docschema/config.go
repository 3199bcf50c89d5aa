package main

import (
	"fmt"

	"github.com/fwojciec/docschema"
)

// Run executes the config command.
func (c *ConfigCmd) Run(deps *Dependencies) error {
	if err := deps.Config.Encode(deps.Stdout); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docschema.ErrorMessage(err))
		return err
	}
	return nil
}
