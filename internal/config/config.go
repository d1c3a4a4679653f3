// Package config reads the YAML document that drives the command line: the
// strategy to evaluate, the walk-forward settings and where to find bars.
package config

import (
	"encoding/json"
	"os"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-walkforward/internal/datasource"
	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DataConfig locates the historical bars.
type DataConfig struct {
	Path     string                     `yaml:"path" json:"path" validate:"required" jsonschema:"title=Data Path,description=Parquet or CSV file with time/open/high/low/close/volume columns"`
	Database string                     `yaml:"database" json:"database" jsonschema:"title=Database,description=DuckDB database path. Defaults to an in-memory database"`
	Symbol   optional.Option[string]    `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,description=Optional symbol filter for multi-symbol files"`
	Start    optional.Option[time.Time] `yaml:"start" json:"start" jsonschema:"title=Start,description=Optional first date to load"`
	End      optional.Option[time.Time] `yaml:"end" json:"end" jsonschema:"title=End,description=Optional last date to load"`
}

type dataDocument struct {
	Path     string     `yaml:"path"`
	Database string     `yaml:"database,omitempty"`
	Symbol   *string    `yaml:"symbol,omitempty"`
	Start    *time.Time `yaml:"start,omitempty"`
	End      *time.Time `yaml:"end,omitempty"`
}

// UnmarshalYAML implements custom unmarshaling for DataConfig
func (d *DataConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var config dataDocument
	if err := unmarshal(&config); err != nil {
		return err
	}

	d.Path = config.Path
	d.Database = config.Database
	d.Symbol = fromPointer(config.Symbol)
	d.Start = fromPointer(config.Start)
	d.End = fromPointer(config.End)

	return nil
}

// MarshalYAML writes unset optional fields as absent keys.
func (d DataConfig) MarshalYAML() (interface{}, error) {
	return dataDocument{
		Path:     d.Path,
		Database: d.Database,
		Symbol:   toPointer(d.Symbol),
		Start:    toPointer(d.Start),
		End:      toPointer(d.End),
	}, nil
}

func toPointer[T any](o optional.Option[T]) *T {
	if o.IsNone() {
		return nil
	}

	v := o.Unwrap()

	return &v
}

func fromPointer[T any](v *T) optional.Option[T] {
	if v == nil {
		return optional.None[T]()
	}

	return optional.Some(*v)
}

// Query converts the filters into a loader query.
func (d DataConfig) Query() datasource.Query {
	return datasource.Query{Symbol: d.Symbol, Start: d.Start, End: d.End}
}

// Config is the full run document.
type Config struct {
	Strategy    types.StrategyConfig    `yaml:"strategy" json:"strategy" jsonschema:"title=Strategy"`
	WalkForward types.WalkForwardConfig `yaml:"walk_forward" json:"walkForward" jsonschema:"title=Walk Forward"`
	Data        DataConfig              `yaml:"data" json:"data" jsonschema:"title=Data"`
}

// Default returns a document with every default applied and no data path.
func Default() Config {
	return Config{
		Strategy:    types.DefaultStrategyConfig(),
		WalkForward: types.DefaultWalkForwardConfig(),
		Data:        DataConfig{Database: ":memory:"},
	}
}

// Load reads and validates the document at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return Parse(data)
}

// Parse overlays the YAML document onto Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if cfg.Data.Database == "" {
		cfg.Data.Database = ":memory:"
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks struct constraints and the date filter order.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if c.Data.Start.IsSome() && c.Data.End.IsSome() && c.Data.End.Unwrap().Before(c.Data.Start.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidDateRange, "data end is before data start")
	}

	return nil
}

// LoadBars initializes loader with the configured file and loads the bars.
func LoadBars(loader datasource.Loader, d DataConfig) ([]types.Bar, error) {
	if err := loader.Initialize(d.Path); err != nil {
		return nil, err
	}

	return loader.Load(d.Query())
}

// GenerateSchema generates a JSON schema for Config
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case reflect.TypeOf(optional.Option[time.Time]{}):
				return &jsonschema.Schema{Type: "string", Format: "date-time"}
			case reflect.TypeOf(optional.Option[string]{}):
				return &jsonschema.Schema{Type: "string"}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "argo-walkforward-config"
	schema.Description = "Configuration schema for walk-forward evaluation runs"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for Config
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
