package config

import (
	"flag"
	"time"
)

// Parse reads settings from args. A -config file is loaded first, then
// every flag the caller actually passed overrides the file.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	def := DefaultConfig()

	var (
		path           string
		port           int
		env            string
		storeTimeout   time.Duration
		limiterEnabled bool
		limiterRPS     float64
		limiterBurst   int
		legacyNotFound bool
	)
	fs.StringVar(&path, "config", "", "Path to a YAML config file")
	fs.IntVar(&port, "port", def.Port, "Server port")
	fs.StringVar(&env, "env", def.Environment, "Environment(development|staging|production)")
	fs.DurationVar(&storeTimeout, "store-timeout", def.Store.Timeout, "Upper bound on a single book store access")
	fs.BoolVar(&limiterEnabled, "limiter-enabled", def.Limiter.Enabled, "Enable per-IP rate limiting")
	fs.Float64Var(&limiterRPS, "limiter-rps", def.Limiter.RPS, "Rate limiter maximum requests per second")
	fs.IntVar(&limiterBurst, "limiter-burst", def.Limiter.Burst, "Rate limiter maximum burst")
	fs.BoolVar(&legacyNotFound, "legacy-not-found", def.LegacyNotFound, "Serve not-found fragments with status 200")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := def
	if path != "" {
		var err error
		cfg, err = LoadFromPath(path)
		if err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = port
		case "env":
			cfg.Environment = env
		case "store-timeout":
			cfg.Store.Timeout = storeTimeout
		case "limiter-enabled":
			cfg.Limiter.Enabled = limiterEnabled
		case "limiter-rps":
			cfg.Limiter.RPS = limiterRPS
		case "limiter-burst":
			cfg.Limiter.Burst = limiterBurst
		case "legacy-not-found":
			cfg.LegacyNotFound = legacyNotFound
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
