package config

import (
	"encoding/json"
	"os"
	"reflect"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/c9s/tspipe/pkg/pipeline"
)

var (
	// ErrUnknownOperator is returned when a pipeline entry names an operator
	// that was never registered.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrEmptyPipeline is returned when the config has no pipeline entries
	// to build a chain from.
	ErrEmptyPipeline = errors.New("empty pipeline")
)

// SourceConfig selects and parameterizes the data source of a run.
type SourceConfig struct {
	// Format is csv or jsonl. The run command falls back to csv when empty.
	Format string `json:"format"`

	// Path is the data file. A command line argument overrides it, and "-"
	// means stdin.
	Path string `json:"path"`

	// Column is the zero-based CSV column holding the value.
	Column int `json:"column"`

	// Key is the JSON object key holding the value; empty means each line is
	// a bare number.
	Key string `json:"key"`

	// Header skips the first CSV record.
	Header bool `json:"header"`
}

// OperatorConfig pairs a pipeline entry's operator key with its
// re-unmarshaled builder.
type OperatorConfig struct {
	ID      string
	Builder pipeline.OperatorBuilder
}

type Config struct {
	Source    *SourceConfig
	BatchSize int
	Pipeline  []OperatorConfig
}

type Stash map[string]interface{}

func loadStash(configFile string) (Stash, error) {
	config, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	stash := make(Stash)
	if err := yaml.Unmarshal(config, stash); err != nil {
		return nil, err
	}

	return stash, err
}

func Load(configFile string) (*Config, error) {
	var config Config

	stash, err := loadStash(configFile)
	if err != nil {
		return nil, err
	}

	if err := loadSource(&config, stash); err != nil {
		return nil, err
	}

	if err := loadBatchSize(&config, stash); err != nil {
		return nil, err
	}

	if err := loadPipeline(&config, stash); err != nil {
		return nil, err
	}

	return &config, nil
}

func loadSource(config *Config, stash Stash) error {
	conf, ok := stash["source"]
	if !ok {
		return nil
	}

	val, err := reUnmarshal(conf, SourceConfig{})
	if err != nil {
		return err
	}

	source := val.(SourceConfig)
	config.Source = &source
	return nil
}

func loadBatchSize(config *Config, stash Stash) error {
	conf, ok := stash["batchSize"]
	if !ok {
		return nil
	}

	switch v := conf.(type) {
	case int:
		config.BatchSize = v

	case float64:
		config.BatchSize = int(v)

	default:
		return errors.Errorf("batchSize should be an integer, given: %T %+v", conf, conf)
	}

	return nil
}

func loadPipeline(config *Config, stash Stash) error {
	pipelineConf, ok := stash["pipeline"]
	if !ok {
		return nil
	}

	configList, ok := pipelineConf.([]interface{})
	if !ok {
		return errors.New("expecting list in pipeline")
	}

	for _, entry := range configList {
		configStash, ok := entry.(Stash)
		if !ok {
			return errors.Errorf("operator config should be a map, given: %T %+v", entry, entry)
		}

		if len(configStash) != 1 {
			return errors.Errorf("each pipeline entry should name exactly one operator, given: %+v", configStash)
		}

		for id, conf := range configStash {
			// a bare "- sma:" entry means all defaults
			if conf == nil {
				conf = Stash{}
			}

			// look up the registered config struct type
			builder, ok := pipeline.LoadedOperators[id]
			if !ok {
				return errors.Wrapf(ErrUnknownOperator, "%q", id)
			}

			val, err := reUnmarshal(conf, builder)
			if err != nil {
				return err
			}

			config.Pipeline = append(config.Pipeline, OperatorConfig{
				ID:      id,
				Builder: val.(pipeline.OperatorBuilder),
			})
		}
	}

	return nil
}

// Operators constructs fresh operator instances from the loaded pipeline
// entries. Every call builds new, independent state.
func (c *Config) Operators() ([]pipeline.Operator, error) {
	if len(c.Pipeline) == 0 {
		return nil, ErrEmptyPipeline
	}

	var ops []pipeline.Operator
	for _, entry := range c.Pipeline {
		op, err := entry.Builder.Build()
		if err != nil {
			return nil, errors.Wrapf(err, "operator %q", entry.ID)
		}

		ops = append(ops, op)
	}

	return ops, nil
}

// Build assembles the configured chain over the given source and returns its
// most downstream stage.
func (c *Config) Build(source pipeline.Source) (*pipeline.Stage, error) {
	ops, err := c.Operators()
	if err != nil {
		return nil, err
	}

	var opts []pipeline.Option
	if c.BatchSize > 0 {
		opts = append(opts, pipeline.WithBatchSize(c.BatchSize))
	}

	stage, err := pipeline.NewStage(ops[0], nil, append([]pipeline.Option{pipeline.WithSource(source)}, opts...)...)
	if err != nil {
		return nil, err
	}

	for _, op := range ops[1:] {
		stage, err = pipeline.NewStage(op, stage, opts...)
		if err != nil {
			return nil, err
		}
	}

	return stage, nil
}

func reUnmarshal(conf interface{}, tpe interface{}) (interface{}, error) {
	// get the type "*SMAConfig"
	rt := reflect.TypeOf(tpe)

	// allocate new object from the given type
	val := reflect.New(rt)

	// now we have &(*SMAConfig) -> **SMAConfig
	valRef := val.Interface()

	plain, err := json.Marshal(conf)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(plain, valRef); err != nil {
		return nil, errors.Wrapf(err, "json parsing error, given payload: %s", plain)
	}

	return val.Elem().Interface(), nil
}
