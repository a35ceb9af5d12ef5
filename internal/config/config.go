package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

// EnvPrefix prefixes every environment override, e.g. WEALTHFLOW_DB_HOST
const EnvPrefix = "WEALTHFLOW_"

type Application struct {
	Server   Server   `koanf:"server"`
	Database Database `koanf:"db"`
	Engine   Engine   `koanf:"engine"`
	Log      Log      `koanf:"log"`
}

type Server struct {
	Port     int    `koanf:"port"`
	Token    string `koanf:"token"`
	Timezone string `koanf:"timezone"`
}

type Database struct {
	Host      string `koanf:"host"`
	Port      int    `koanf:"port"`
	User      string `koanf:"user"`
	Pass      string `koanf:"pass"`
	Name      string `koanf:"name"`
	SSLMode   string `koanf:"sslmode"`
	Conn      string `koanf:"conn"` // full connection string; overrides the fields above
	Bootstrap bool   `koanf:"bootstrap"`
}

// Engine tunes the projections; zero values fall back to the engine defaults
type Engine struct {
	Window    int   `koanf:"window"`    // timeline display window, days
	Lookahead int   `koanf:"lookahead"` // timeline simulation horizon, days
	Autopay   int   `koanf:"autopay"`   // autopay risk horizon, days
	Forecast  []int `koanf:"forecast"`  // forecast windows, days
	Memo      int   `koanf:"memo"`      // cached projections, 0 disables caching
}

type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // text or json
}

func defaults() Application {
	return Application{
		Server: Server{
			Port:     8080,
			Token:    "dev-token",
			Timezone: "UTC",
		},
		Database: Database{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Pass:      "postgres",
			Name:      "wealthflow",
			SSLMode:   "disable",
			Bootstrap: true,
		},
		Engine: Engine{
			Window:    30,
			Lookahead: 90,
			Autopay:   45,
			Forecast:  []int{30, 90, 365},
			Memo:      64,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load layers the defaults, the YAML file at path (optional) and WEALTHFLOW_* environment variables
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Infof("Config file not found at %s, using defaults and environment variables", path)
			} else {
				log.Errorf("error loading config from YAML: %v", err)
				return Application{}, err
			}
		} else {
			log.Infof("Loaded configuration from file: %s", path)
		}
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, EnvPrefix)), "_", ".")
			if k == "engine.forecast" {
				return k, strings.Split(v, ",")
			}
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

// Location resolves the configured timezone, falling back to UTC
func (s Server) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		log.Warnf("unknown timezone %q, using UTC", s.Timezone)
		return time.UTC
	}
	return loc
}

// Setup applies the log level and format to the standard logrus logger
func (l Log) Setup() {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		log.Warnf("unknown log level %q, using info", l.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if l.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

// ConnString builds the lib/pq connection string
func (d Database) ConnString() string {
	if d.Conn != "" {
		return d.Conn
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Pass, d.Name, d.SSLMode)
}
