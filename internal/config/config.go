package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Calendar  CalendarConfig  `yaml:"calendar"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	NATS      NATSConfig      `yaml:"nats"`
	Consul    ConsulConfig    `yaml:"consul"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CalendarConfig pins the business window and the bounds on slot queries.
type CalendarConfig struct {
	Timezone           string `yaml:"timezone"`
	DayStart           string `yaml:"day_start"`
	DayEnd             string `yaml:"day_end"`
	MaxDurationMinutes int    `yaml:"max_duration_minutes"`
	LookaheadDays      int    `yaml:"lookahead_days"`
	SuggestionLimit    int    `yaml:"suggestion_limit"`
}

// SchedulerConfig controls the upcoming-event notifier.
type SchedulerConfig struct {
	CheckInterval   string `yaml:"check_interval"`
	LookaheadWindow string `yaml:"lookahead_window"`
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type ConsulConfig struct {
	Address                        string `yaml:"address"`
	ServiceID                      string `yaml:"service_id"`
	ServiceName                    string `yaml:"service_name"`
	CheckInterval                  string `yaml:"check_interval"`
	DeregisterCriticalServiceAfter string `yaml:"deregister_critical_service_after"`
}

// Load reads the yaml config file, fills defaults and validates everything
// that would otherwise fail deep inside the calendar engine. The getters
// below are safe to call on a loaded config.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8084,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Calendar: CalendarConfig{
			Timezone:           "Local",
			DayStart:           "09:00",
			DayEnd:             "17:00",
			MaxDurationMinutes: 8 * 60,
			LookaheadDays:      1,
			SuggestionLimit:    3,
		},
		Scheduler: SchedulerConfig{
			CheckInterval:   "1m",
			LookaheadWindow: "15m",
		},
		NATS: NATSConfig{
			URL: "nats://localhost:4222",
		},
		Consul: ConsulConfig{
			Address:                        "localhost:8500",
			ServiceID:                      "scheduling-1",
			ServiceName:                    "scheduling",
			CheckInterval:                  "10s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}
}

func (c *Config) validate() error {
	if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
		return fmt.Errorf("invalid calendar.timezone %q: %w", c.Calendar.Timezone, err)
	}
	start, err := parseClock("calendar.day_start", c.Calendar.DayStart)
	if err != nil {
		return err
	}
	end, err := parseClock("calendar.day_end", c.Calendar.DayEnd)
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("calendar.day_start %q must be before calendar.day_end %q", c.Calendar.DayStart, c.Calendar.DayEnd)
	}
	if c.Calendar.MaxDurationMinutes <= 0 {
		return fmt.Errorf("calendar.max_duration_minutes must be positive")
	}
	if c.Calendar.LookaheadDays < 0 {
		return fmt.Errorf("calendar.lookahead_days must not be negative")
	}
	if _, err := time.ParseDuration(c.Scheduler.CheckInterval); err != nil {
		return fmt.Errorf("invalid scheduler.check_interval %q: %w", c.Scheduler.CheckInterval, err)
	}
	if _, err := time.ParseDuration(c.Scheduler.LookaheadWindow); err != nil {
		return fmt.Errorf("invalid scheduler.lookahead_window %q: %w", c.Scheduler.LookaheadWindow, err)
	}
	return nil
}

// GetLocation resolves the configured timezone name.
func (c *CalendarConfig) GetLocation() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// GetDayStart returns the business-day start as an offset from midnight.
func (c *CalendarConfig) GetDayStart() time.Duration {
	d, _ := parseClock("calendar.day_start", c.DayStart)
	return d
}

// GetDayEnd returns the business-day end as an offset from midnight.
func (c *CalendarConfig) GetDayEnd() time.Duration {
	d, _ := parseClock("calendar.day_end", c.DayEnd)
	return d
}

func (c *CalendarConfig) GetMaxDuration() time.Duration {
	return time.Duration(c.MaxDurationMinutes) * time.Minute
}

func parseClock(field, value string) (time.Duration, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q, expected HH:MM: %w", field, value, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func (c *SchedulerConfig) GetCheckInterval() time.Duration {
	d, err := time.ParseDuration(c.CheckInterval)
	if err != nil {
		return time.Minute
	}
	return d
}

func (c *SchedulerConfig) GetLookaheadWindow() time.Duration {
	d, err := time.ParseDuration(c.LookaheadWindow)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}
