package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = "postgres://localhost:5432/buscapro?sslmode=disable"
	}
	if cfg.Redis.URL == "" {
		cfg.Redis.URL = "redis://localhost:6379/0"
	}
	if cfg.Redis.TimeoutSeconds == 0 {
		cfg.Redis.TimeoutSeconds = 2
	}
	if cfg.Cache.SearchTTLSeconds == 0 {
		cfg.Cache.SearchTTLSeconds = 300
	}
	if cfg.Cache.SuggestionTTLSeconds == 0 {
		cfg.Cache.SuggestionTTLSeconds = 180
	}
	if cfg.Cache.FallbackMaxEntries == 0 {
		cfg.Cache.FallbackMaxEntries = 1000
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 20
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 100
	}
	if cfg.Search.MaxRadiusKm == 0 {
		cfg.Search.MaxRadiusKm = 50
	}
	if cfg.Ranking.Locale == "" {
		cfg.Ranking.Locale = "es"
	}
	if cfg.Metrics.RingSize == 0 {
		cfg.Metrics.RingSize = 500
	}
}
