package config

import "time"

// Config holds the settings of a topk run. Values come from, in increasing
// order of precedence, the default tags, the config file, TOPK_* environment
// variables and command-line flags.
type Config struct {
	// K is how many of the most frequent keys to report
	K int `mapstructure:"k" yaml:"k" json:"k" default:"100"`

	// Shards is the number of partitions the input is split into
	Shards int `mapstructure:"shards" yaml:"shards" json:"shards" default:"1"`

	// Workers is the number of worker goroutines
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers" default:"1"`

	// Output is the result format (plain, table, json, yaml)
	Output string `mapstructure:"output" yaml:"output" json:"output" default:"plain"`

	// Timeout bounds the counting stage; zero disables it
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`

	// ShardDir is where shard files are written. Empty means the temp dir.
	ShardDir string `mapstructure:"shard-dir" yaml:"shard-dir,omitempty" json:"shardDir,omitempty"`

	// KeepShards leaves shard files on disk after the run
	KeepShards bool `mapstructure:"keep-shards" yaml:"keep-shards" json:"keepShards"`

	// NoColor disables colored output
	NoColor bool `mapstructure:"no-color" yaml:"no-color" json:"noColor"`

	// Verbose enables debug logging
	Verbose bool `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Metrics prints pool metrics after the results
	Metrics bool `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// OutputFormats lists the accepted values of Config.Output
var OutputFormats = []string{"plain", "table", "json", "yaml"}
