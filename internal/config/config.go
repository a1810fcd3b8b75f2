// Package config loads the application configuration from defaults, an
// optional YAML file and environment variables, in that order.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

type Application struct {
	Listen        string        `koanf:"listen"`
	APIURL        string        `koanf:"apiurl"`
	CORSOrigins   []string      `koanf:"corsorigins"`
	EnablePprof   bool          `koanf:"enablepprof"`
	LogFormat     string        `koanf:"logformat"`
	Database      Database      `koanf:"db"`
	Gemini        Gemini        `koanf:"gemini"`
	Jobs          Jobs          `koanf:"jobs"`
	Notifications Notifications `koanf:"notifications"`
}

type Database struct {
	Path string `koanf:"path"`
}

type Gemini struct {
	APIKey  string        `koanf:"apikey"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`
}

type Jobs struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

type Notifications struct {
	Retention time.Duration `koanf:"retention"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Listen:    ":8080",
		APIURL:    "http://localhost:8080",
		LogFormat: "json",
		Database: Database{
			Path: "data/optibudget.db",
		},
		Gemini: Gemini{
			Model:   "gemini-2.0-flash",
			Timeout: 30 * time.Second,
		},
		Jobs: Jobs{
			Enabled:  true,
			Interval: time.Hour,
		},
		Notifications: Notifications{
			Retention: 30 * 24 * time.Hour,
		},
	}, "koanf"), nil)
	if err != nil {
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", path).Msg("config file not found, using defaults and environment variables")
		} else {
			return Application{}, err
		}
	} else {
		log.Info().Str("path", path).Msg("loaded configuration file")
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "OPTIBUDGET_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "OPTIBUDGET_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
