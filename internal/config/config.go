// Package config loads the analyzer CLI settings from a yaml file with
// zero-value defaulting.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds the CLI settings. Every field has a default so an
// absent config file is fine.
type Config struct {
	// CiphertextFile is the input file, one hex message per line.
	CiphertextFile string `yaml:"ciphertextFile"`
	// SessionDir is where confirmed key spans are persisted.
	SessionDir string `yaml:"sessionDir"`
	// Threshold is the printable-ratio cutoff for plausibility.
	Threshold float64 `yaml:"threshold"`
	// Workers sizes the sweep worker pool. 0 means one per CPU.
	Workers int `yaml:"workers"`
	// MinimumFreeMB is the free-disk threshold for the session store.
	MinimumFreeMB uint64 `yaml:"minimumFreeMB"`
}

// Defaults mirrors the original lab layout: a data/ directory under
// the working directory.
func Defaults() Config {
	return Config{
		CiphertextFile: "data/ciphertexts_to_decrypt.txt",
		SessionDir:     "data/session",
		Threshold:      0.70,
		MinimumFreeMB:  64,
	}
}

// Load reads yaml from path and fills unset fields with defaults. A
// missing file yields pure defaults without error.
func Load(path string) (Config, error) {
	conf := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return conf, nil
		}
		return conf, fmt.Errorf("reading config: %w", err)
	}
	var fileConf Config
	if err := yaml.Unmarshal(data, &fileConf); err != nil {
		return conf, fmt.Errorf("parsing config: %w", err)
	}
	if fileConf.CiphertextFile != "" {
		conf.CiphertextFile = fileConf.CiphertextFile
	}
	if fileConf.SessionDir != "" {
		conf.SessionDir = fileConf.SessionDir
	}
	if fileConf.Threshold != 0 {
		conf.Threshold = fileConf.Threshold
	}
	if fileConf.Workers != 0 {
		conf.Workers = fileConf.Workers
	}
	if fileConf.MinimumFreeMB != 0 {
		conf.MinimumFreeMB = fileConf.MinimumFreeMB
	}
	return conf, nil
}
