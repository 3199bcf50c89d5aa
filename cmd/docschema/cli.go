package main

import (
	"context"
	"io"

	"github.com/fwojciec/docschema"
	"github.com/fwojciec/docschema/crawl"
	"github.com/fwojciec/docschema/toml"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *toml.Config
	Fields  *docschema.FieldSetHolder
	Records docschema.RecordService
	Indexer *crawl.Indexer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	ConfigFile string `name:"config" short:"C" env:"DOCSCHEMA_CONFIG" default:"docschema.toml" help:"Configuration file"`
	DB         string `env:"DOCSCHEMA_DB" help:"Record database path (overrides the configuration file)"`
	Fields     string `help:"Field list file (overrides the configuration file)"`
	Extractor  string `enum:"trafilatura,readability,none" default:"trafilatura" help:"Metadata extractor filling gaps left by the parser"`
	Verbose    bool   `short:"v" help:"Log fetches, lookups and store operations"`

	Map        MapCmd    `cmd:"" help:"Fetch a document and print its index record"`
	Index      IndexCmd  `cmd:"" help:"Fetch documents and store their index records"`
	Show       ShowCmd   `cmd:"" help:"Print a stored record"`
	List       ListCmd   `cmd:"" help:"List stored records"`
	Delete     DeleteCmd `cmd:"" help:"Delete a stored record"`
	FieldList  FieldsCmd `cmd:"" name:"fields" help:"List the index fields and whether they are enabled"`
	ShowConfig ConfigCmd `cmd:"" name:"config" help:"Print the effective configuration"`
}

// MapCmd is the "map" subcommand.
type MapCmd struct {
	URL  string `arg:"" help:"Document URL"`
	File string `short:"f" type:"existingfile" help:"Read the document from a local file instead of fetching URL"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	URLs           []string `arg:"" name:"url" help:"Document URLs"`
	Concurrency    int      `short:"c" help:"Concurrent fetch limit (overrides the configuration file)"`
	JSONL          string   `name:"jsonl" xor:"sink" help:"Also append records as JSON lines to this file ('-' for stdout)"`
	Dir            string   `xor:"sink" help:"Also write one JSON file per record under this directory"`
	RecordFailures bool     `help:"Store a record with the fail reason for documents that cannot be fetched"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID string `arg:"" help:"Record id"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Host   string `help:"Only records of this host"`
	Limit  int    `short:"n" default:"50" help:"Maximum number of records"`
	Offset int    `help:"Number of records to skip"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Record id"`
	Force bool   `help:"Confirm deletion"`
}

// FieldsCmd is the "fields" subcommand.
type FieldsCmd struct {
	Enabled bool `help:"Only list enabled fields"`
}

// ConfigCmd is the "config" subcommand.
type ConfigCmd struct{}
