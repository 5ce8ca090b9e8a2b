package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port             int
	DatabaseURL      string
	DatabaseType     string
	MasterAccessKey  string
	UserAccessKey    string
	TokenSalt        string
	MinVoteInterval  time.Duration
	SnapshotInterval time.Duration
}

// ParseFlags validates flags and fills in defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var voteIntervalMs, snapshotIntervalMs int64

	fs := flag.NewFlagSet("blockfighters", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.MasterAccessKey, "master-key", "", "Master access key (prefer env)")
	fs.StringVar(&cfg.UserAccessKey, "user-key", "", "User access key (prefer env)")
	fs.StringVar(&cfg.TokenSalt, "token-salt", "", "Identity token salt (prefer env)")

	// Tuning
	fs.Int64Var(&voteIntervalMs, "vote-interval", 0, "Minimum ms between votes per identity")
	fs.Int64Var(&snapshotIntervalMs, "snapshot-interval", 0, "Minimum ms between snapshot pins")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8077 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	// Secrets - MUST be provided
	if cfg.MasterAccessKey == "" {
		cfg.MasterAccessKey = os.Getenv("MASTER_ACCESS_KEY")
	}
	if cfg.MasterAccessKey == "" {
		return Config{}, errors.New("MASTER_ACCESS_KEY required")
	}

	if cfg.UserAccessKey == "" {
		cfg.UserAccessKey = os.Getenv("USER_ACCESS_KEY")
	}
	if cfg.UserAccessKey == "" {
		return Config{}, errors.New("USER_ACCESS_KEY required")
	}
	if cfg.UserAccessKey == cfg.MasterAccessKey {
		return Config{}, errors.New("MASTER_ACCESS_KEY and USER_ACCESS_KEY must differ")
	}

	if cfg.TokenSalt == "" {
		cfg.TokenSalt = os.Getenv("TOKEN_SALT")
	}
	if cfg.TokenSalt == "" {
		return Config{}, errors.New("TOKEN_SALT required")
	}

	if voteIntervalMs == 0 {
		if s := os.Getenv("MIN_VOTE_INTERVAL_MS"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return Config{}, errors.New("invalid MIN_VOTE_INTERVAL_MS env variable")
			}
			voteIntervalMs = v
		} else {
			voteIntervalMs = 5000 // default
		}
	}
	if voteIntervalMs < 0 {
		return Config{}, errors.New("vote interval must not be negative")
	}
	cfg.MinVoteInterval = time.Duration(voteIntervalMs) * time.Millisecond

	if snapshotIntervalMs == 0 {
		if s := os.Getenv("MIN_SNAPSHOT_INTERVAL_MS"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return Config{}, errors.New("invalid MIN_SNAPSHOT_INTERVAL_MS env variable")
			}
			snapshotIntervalMs = v
		} else {
			snapshotIntervalMs = 60000 // default, one pin per minute
		}
	}
	cfg.SnapshotInterval = time.Duration(snapshotIntervalMs) * time.Millisecond

	return cfg, nil
}
