package main

import (
	"fmt"
	"time"

	"github.com/Asteroidea-tn/asterombr/pkg/astrocrypt"
	"github.com/Asteroidea-tn/asterombr/pkg/astroenv"
	"github.com/Asteroidea-tn/asterombr/pkg/astrolog"
	"github.com/Asteroidea-tn/asterombr/pkg/astromail"
)

/*
.env example:

MBR_LOG_LEVEL=debug
MBR_WORKERS=8
MBR_SECRET_KEY=0123456789abcdef0123456789abcdef
MBR_MAIL_HOST=smtp.example.com
MBR_MAIL_TO=ops@example.com
MBR_MAIL_PASSWORD=<output of astrombr -encrypt-secret>
*/

type Config struct {
	Log struct {
		Level       string `env:"MBR_LOG_LEVEL,info"`
		ToFile      bool   `env:"MBR_LOG_TO_FILE,false"`
		FileName    string `env:"MBR_LOG_FILE,astrombr"`
		Dir         string `env:"MBR_LOG_DIR,./logs"`
		Formatted   bool   `env:"MBR_LOG_FORMATTED,true"`
		MaxFileSize int    `env:"MBR_LOG_MAX_SIZE,10"`
		MaxFiles    int    `env:"MBR_LOG_MAX_FILES,7"`
	}

	Batch struct {
		Workers           int           `env:"MBR_WORKERS,4"`
		ParallelThreshold int           `env:"MBR_PARALLEL_THRESHOLD,4096"`
		ParseCache        int           `env:"MBR_PARSE_CACHE,1024"`
		FailFast          bool          `env:"MBR_FAIL_FAST,false"`
		Timeout           time.Duration `env:"MBR_TIMEOUT,0s"` // 0 = no limit
	}

	// AES key for fields tagged encrypt:"true"; 16, 24 or 32 bytes.
	// Those fields hold values printed by -encrypt-secret for their env key.
	SecretKey string `env:"MBR_SECRET_KEY,"`

	Mail struct {
		Host     string `env:"MBR_MAIL_HOST,"`
		Port     int    `env:"MBR_MAIL_PORT,587"`
		Username string `env:"MBR_MAIL_USERNAME,"`
		Password string `env:"MBR_MAIL_PASSWORD," encrypt:"true"`
		From     string `env:"MBR_MAIL_FROM,astrombr@localhost"`
		To       string `env:"MBR_MAIL_TO,"`
	}
}

// loadConfig reads the environment (and env files) and opens sealed
// fields when a secret key is configured.
func loadConfig(files ...string) (*Config, *astrocrypt.Service, error) {
	var cfg Config
	if err := astroenv.Load(&cfg, files...); err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.SecretKey == "" {
		return &cfg, nil, nil
	}

	svc, err := astrocrypt.NewService([]byte(cfg.SecretKey))
	if err != nil {
		return nil, nil, fmt.Errorf("secret key: %w", err)
	}
	if err := svc.OpenStruct(&cfg); err != nil {
		return nil, nil, fmt.Errorf("decrypt config: %w", err)
	}
	return &cfg, svc, nil
}

func (c *Config) logConfig() astrolog.Config {
	return astrolog.Config{
		Level:       c.Log.Level,
		ToFile:      c.Log.ToFile,
		Dir:         c.Log.Dir,
		FileName:    c.Log.FileName,
		Formatted:   c.Log.Formatted,
		MaxFileSize: c.Log.MaxFileSize,
		MaxFiles:    c.Log.MaxFiles,
	}
}

func (c *Config) mailConfig() astromail.Config {
	return astromail.Config{
		Host:     c.Mail.Host,
		Port:     c.Mail.Port,
		Username: c.Mail.Username,
		Password: c.Mail.Password,
		From:     c.Mail.From,
		To:       astromail.ParseRecipients(c.Mail.To),
	}
}
