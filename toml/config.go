// Package toml loads the docschema configuration file.
package toml

import (
	"errors"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/fwojciec/docschema"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/samber/lo"
)

var validate = validator.New()

// Defaults applied to settings missing from the file.
const (
	DefaultDB          = "docschema.db"
	DefaultConcurrency = 10
	DefaultRate        = 1.0
	DefaultTimeout     = 10 * time.Second
	DefaultRetries     = 3
)

// Config is the content of the configuration file.
type Config struct {
	// DB is the path of the SQLite record store.
	DB string `toml:"db" validate:"required"`

	// FieldsFile is the field list file. Empty means index everything.
	FieldsFile string `toml:"fields_file"`

	// Watch reloads the field list when the file changes.
	Watch bool `toml:"watch"`

	Crawl CrawlConfig `toml:"crawl"`

	// Evaluation maps model names to score name → regular expression tables.
	Evaluation map[string]map[string]string `toml:"evaluation,omitempty" validate:"dive,min=1"`
}

// CrawlConfig configures the indexing pipeline.
type CrawlConfig struct {
	Concurrency int      `toml:"concurrency" validate:"min=1,max=100"`
	Rate        float64  `toml:"rate" validate:"gt=0"`
	Timeout     Duration `toml:"timeout"`
	Retries     int      `toml:"retries" validate:"min=0,max=10"`
	UserAgent   string   `toml:"user_agent"`
}

// Duration is a time.Duration written as a string such as "10s".
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		DB: DefaultDB,
		Crawl: CrawlConfig{
			Concurrency: DefaultConcurrency,
			Rate:        DefaultRate,
			Timeout:     Duration(DefaultTimeout),
			Retries:     DefaultRetries,
		},
	}
}

// Parse reads a configuration from r on top of the defaults.
// Returns EINVALID for malformed or invalid configuration.
func Parse(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, docschema.Errorf(docschema.EINVALID, "config line %d column %d: %s", row, col, derr.Error())
		}
		return nil, docschema.Errorf(docschema.EINVALID, "config: %v", err)
	}
	if cfg.Crawl.Timeout <= 0 {
		cfg.Crawl.Timeout = Duration(DefaultTimeout)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the configuration file at path. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// Validate checks the configuration values. Returns EINVALID describing the
// first failing setting.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			msgs := lo.Map(verrs, func(fe validator.FieldError, _ int) string {
				return fe.Namespace() + " failed " + fe.Tag()
			})
			return docschema.Errorf(docschema.EINVALID, "invalid config: %s", strings.Join(msgs, "; "))
		}
		return docschema.Errorf(docschema.EINVALID, "invalid config: %v", err)
	}
	return nil
}

// EvaluationModels compiles the configured evaluation models in name order.
func (c *Config) EvaluationModels() ([]*docschema.EvaluationModel, error) {
	names := lo.Keys(c.Evaluation)
	slices.Sort(names)

	models := make([]*docschema.EvaluationModel, 0, len(names))
	for _, name := range names {
		m, err := docschema.ParseEvaluationModel(name, c.Evaluation[name])
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	return models, nil
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
