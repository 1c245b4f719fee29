package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/risk"
	"SignalSentinel/internal/strategy"
)

// DefaultUniverse is the TSX large-cap watch list.
var DefaultUniverse = []string{
	"SHOP.TO", "SU.TO", "RY.TO", "TD.TO", "BNS.TO",
	"ENB.TO", "CNQ.TO", "CP.TO", "CNR.TO", "BAM.TO",
}

// Config holds all application configuration.
type Config struct {
	Account struct {
		Size           float64 `yaml:"size"`
		RiskPercent    float64 `yaml:"risk_percent"`
		RewardMultiple float64 `yaml:"reward_multiple"`
	} `yaml:"account"`
	Universe []string `yaml:"universe"`
	Policy   struct {
		Weights *strategy.Weights `yaml:"weights"`
		RSILow  float64           `yaml:"rsi_low"`
		RSIHigh float64           `yaml:"rsi_high"`
		// Omitted periods and grades take the defaults; explicit zeros are kept.
		Periods struct {
			EMAFast *int `yaml:"ema_fast"`
			EMASlow *int `yaml:"ema_slow"`
			RSI     *int `yaml:"rsi"`
			ATR     *int `yaml:"atr"`
			Rolling *int `yaml:"rolling"`
		} `yaml:"periods"`
		Grades struct {
			APlus *int `yaml:"a_plus"`
			A     *int `yaml:"a"`
			B     *int `yaml:"b"`
		} `yaml:"grades"`
	} `yaml:"policy"`
	DataSource struct {
		CoarseRange string        `yaml:"coarse_range"`
		FineRange   string        `yaml:"fine_range"`
		Concurrency int           `yaml:"concurrency"`
		CacheMaxAge time.Duration `yaml:"cache_max_age"`
	} `yaml:"data_source"`
	Schedule struct {
		RefreshCron  string        `yaml:"refresh_cron"`
		CycleTimeout time.Duration `yaml:"cycle_timeout"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ACCOUNT_SIZE"); v != "" {
		var size float64
		if _, err := fmt.Sscanf(v, "%f", &size); err == nil {
			cfg.Account.Size = size
		}
	}
	if v := os.Getenv("RISK_PERCENT"); v != "" {
		var pct float64
		if _, err := fmt.Sscanf(v, "%f", &pct); err == nil {
			cfg.Account.RiskPercent = pct
		}
	}
	if v := os.Getenv("UNIVERSE"); v != "" {
		cfg.Universe = splitSymbols(v)
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	def := strategy.DefaultPolicy()
	if cfg.Account.Size == 0 {
		cfg.Account.Size = 100000
	}
	if cfg.Account.RiskPercent == 0 {
		cfg.Account.RiskPercent = 1
	}
	if cfg.Account.RewardMultiple == 0 {
		cfg.Account.RewardMultiple = risk.DefaultRewardMultiple
	}
	if len(cfg.Universe) == 0 {
		cfg.Universe = append([]string(nil), DefaultUniverse...)
	}
	if cfg.Policy.Weights == nil {
		w := def.Weights
		cfg.Policy.Weights = &w
	}
	if cfg.Policy.RSILow == 0 && cfg.Policy.RSIHigh == 0 {
		cfg.Policy.RSILow, cfg.Policy.RSIHigh = def.RSILow, def.RSIHigh
	}
	p := &cfg.Policy.Periods
	setDefault(&p.EMAFast, def.Periods.EMAFast)
	setDefault(&p.EMASlow, def.Periods.EMASlow)
	setDefault(&p.RSI, def.Periods.RSI)
	setDefault(&p.ATR, def.Periods.ATR)
	setDefault(&p.Rolling, def.Periods.Rolling)
	g := &cfg.Policy.Grades
	setDefault(&g.APlus, def.Ladder[0].MinScore)
	setDefault(&g.A, def.Ladder[1].MinScore)
	setDefault(&g.B, def.Ladder[2].MinScore)
	if cfg.DataSource.CoarseRange == "" {
		cfg.DataSource.CoarseRange = "6mo"
	}
	if cfg.DataSource.FineRange == "" {
		cfg.DataSource.FineRange = "30d"
	}
	if cfg.DataSource.Concurrency == 0 {
		cfg.DataSource.Concurrency = 4
	}
	if cfg.DataSource.CacheMaxAge == 0 {
		cfg.DataSource.CacheMaxAge = 96 * time.Hour
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "@every 60s"
	}
	if cfg.Schedule.CycleTimeout == 0 {
		cfg.Schedule.CycleTimeout = 45 * time.Second
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if err := c.RiskAccount().Validate(); err != nil {
		return fmt.Errorf("account: %w", err)
	}
	if len(c.Universe) == 0 {
		return fmt.Errorf("universe must not be empty")
	}
	seen := make(map[string]bool, len(c.Universe))
	for _, s := range c.Universe {
		if s == "" {
			return fmt.Errorf("universe contains an empty symbol")
		}
		if seen[s] {
			return fmt.Errorf("universe contains %s twice", s)
		}
		seen[s] = true
	}
	if err := c.ScoringPolicy().Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}
	if c.DataSource.Concurrency < 0 {
		return fmt.Errorf("data_source.concurrency must not be negative")
	}
	if c.DataSource.CacheMaxAge < 0 {
		return fmt.Errorf("data_source.cache_max_age must not be negative")
	}
	if c.Schedule.CycleTimeout < 0 {
		return fmt.Errorf("schedule.cycle_timeout must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// ScoringPolicy builds the immutable rule table.
func (c *Config) ScoringPolicy() strategy.Policy {
	p := c.Policy
	return strategy.Policy{
		Weights: *p.Weights,
		RSILow:  p.RSILow,
		RSIHigh: p.RSIHigh,
		Periods: calculator.Periods{
			EMAFast: *p.Periods.EMAFast,
			EMASlow: *p.Periods.EMASlow,
			RSI:     *p.Periods.RSI,
			ATR:     *p.Periods.ATR,
			Rolling: *p.Periods.Rolling,
		},
		Ladder: []strategy.GradeStep{
			{MinScore: *p.Grades.APlus, Grade: model.GradeAPlus},
			{MinScore: *p.Grades.A, Grade: model.GradeA},
			{MinScore: *p.Grades.B, Grade: model.GradeB},
		},
		Floor: model.GradeC,
	}
}

// RiskAccount builds the sizing inputs.
func (c *Config) RiskAccount() risk.Account {
	return risk.Account{
		Size:           c.Account.Size,
		RiskPercent:    c.Account.RiskPercent,
		RewardMultiple: c.Account.RewardMultiple,
	}
}

func setDefault(v **int, def int) {
	if *v == nil {
		*v = &def
	}
}

func splitSymbols(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
