package commands

import (
	"errors"

	"github.com/spf13/viper"
)

type Config struct {
	InputDir          string           `mapstructure:"input_dir"`
	OutputDir         string           `mapstructure:"output_dir"`
	ParallelJobs      int              `mapstructure:"parallel_jobs"`
	JobStaggerSeconds float64          `mapstructure:"job_stagger_seconds"`
	Frameworks        FrameworksConfig `mapstructure:"frameworks"`
	Benchmarks        BenchmarksConfig `mapstructure:"benchmarks"`
	Results           ResultsConfig    `mapstructure:"results"`
}

type FrameworksConfig struct {
	DefinitionFile string `mapstructure:"definition_file"`
	CacheDir       string `mapstructure:"cache_dir"`
}

type BenchmarksConfig struct {
	DefinitionDir string       `mapstructure:"definition_dir"`
	OSMemSizeMB   int          `mapstructure:"os_mem_size_mb"`
	Defaults      TaskDefaults `mapstructure:"defaults"`
}

type TaskDefaults struct {
	Folds             int   `mapstructure:"folds"`
	Cores             int   `mapstructure:"cores"`
	MaxMemSizeMB      int   `mapstructure:"max_mem_size_mb"`
	MaxRuntimeSeconds int   `mapstructure:"max_runtime_seconds"`
	Seed              int64 `mapstructure:"seed"`
}

type ResultsConfig struct {
	Save           bool `mapstructure:"save"`
	ErrorMaxLength int  `mapstructure:"error_max_length"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{}
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".benchgo")
		v.AddConfigPath(".")
	}

	v.SetDefault("input_dir", "input")
	v.SetDefault("output_dir", "output")
	v.SetDefault("parallel_jobs", 1)
	v.SetDefault("frameworks.definition_file", "resources/frameworks.yaml")
	v.SetDefault("frameworks.cache_dir", ".cache")
	v.SetDefault("benchmarks.definition_dir", "resources/benchmarks")
	v.SetDefault("benchmarks.os_mem_size_mb", 2048)
	v.SetDefault("benchmarks.defaults.folds", 10)
	v.SetDefault("benchmarks.defaults.max_runtime_seconds", 3600)
	v.SetDefault("benchmarks.defaults.seed", 0)
	v.SetDefault("results.save", true)
	v.SetDefault("results.error_max_length", 200)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, the defaults apply. An explicit
		// --config path must exist.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
