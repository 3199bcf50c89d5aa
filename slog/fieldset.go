package slog

import (
	"log/slog"

	"github.com/fwojciec/docschema"
)

// FieldSetReloadLogger returns a reload hook that logs field list reloads.
func FieldSetReloadLogger(logger *slog.Logger) func(*docschema.FieldSet, error) {
	return func(set *docschema.FieldSet, err error) {
		if err != nil {
			logger.Warn("field list reload", "err", err)
			return
		}
		logger.Info("field list reload",
			"fields", set.Len(),
			"universal", set.IsEmpty(),
		)
	}
}
