// cmd/pbsim/config.go
// Copyright(c) 2024-2025 pbutil contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pushback-utility/pbutil/log"
	"github.com/pushback-utility/pbutil/pushback"
	"github.com/pushback-utility/pbutil/util"
)

type Config struct {
	SceneryRoot string          `json:"scenery_root"`
	IndexFile   string          `json:"index_file"`
	PathsDir    string          `json:"paths_dir,omitempty"`
	LogLevel    string          `json:"log_level,omitempty"`
	Pushback    pushback.Config `json:"pushback"`
}

// Environment variables that override the corresponding config fields.
const (
	envSceneryRoot = "PBUTIL_SCENERY_ROOT"
	envIndex       = "PBUTIL_INDEX"
	envPaths       = "PBUTIL_PATHS"
)

func configFilePath(lg *log.Logger) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		lg.Errorf("Unable to find user config dir: %v", err)
		dir = "."
	}

	dir = filepath.Join(dir, "pbutil")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		lg.Errorf("%s: unable to make directory for config file: %v", dir, err)
	}

	return filepath.Join(dir, "config.json")
}

func getDefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Pushback: pushback.DefaultConfig(),
	}
}

// LoadOrMakeDefaultConfig reads the config file at fn, if it exists, and
// applies any environment overrides. Settings missing from the file keep
// their default values.
func LoadOrMakeDefaultConfig(fn string, lg *log.Logger) (*Config, error) {
	config := getDefaultConfig()

	if contents, err := os.ReadFile(fn); err == nil {
		lg.Infof("Loading config from: %s", fn)
		if err := util.UnmarshalJSONBytes(contents, config); err != nil {
			return nil, errors.New(fn + ": " + err.Error())
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	} else {
		lg.Infof("%s: not found, using default config", fn)
	}

	config.applyEnvironment()
	return config, nil
}

func (c *Config) applyEnvironment() {
	for _, o := range []struct {
		env string
		v   *string
	}{
		{envSceneryRoot, &c.SceneryRoot},
		{envIndex, &c.IndexFile},
		{envPaths, &c.PathsDir},
	} {
		if v, ok := os.LookupEnv(o.env); ok && v != "" {
			*o.v = v
		}
	}
}

// Check returns an error describing all of the problems with the config.
func (c *Config) Check() error {
	var e util.ErrorLogger
	e.Push("config")
	if c.SceneryRoot == "" {
		e.ErrorString("scenery_root: must be set (or $%s)", envSceneryRoot)
	}
	if c.IndexFile == "" {
		e.ErrorString("index_file: must be set (or $%s)", envIndex)
	}
	c.Pushback.Check(&e)
	e.Pop()

	if e.HaveErrors() {
		return errors.New(e.String())
	}
	return nil
}

func (c *Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}

func (c *Config) Save(fn string, lg *log.Logger) error {
	lg.Infof("Saving config to: %s", fn)
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer f.Close()

	return c.Encode(f)
}
