package config

import (
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/office-controller/internal/domain/office"
	"github.com/oshokin/office-controller/internal/logger"
)

// Config holds the settings of one facility and its collector.
type Config struct {
	// OfficeID identifies the facility; it is lowercased by the controller.
	OfficeID string `yaml:"office_id"`
	// InitialMode is entered at startup; empty keeps out_of_hours.
	InitialMode string `yaml:"initial_mode,omitempty"`
	// LogLevel is the zap level name for the binaries.
	LogLevel string `yaml:"log_level,omitempty"`
	// LockDir is where the facility lock file is created.
	LockDir string `yaml:"lock_dir,omitempty"`
	// Devices describes the simulated device banks.
	Devices Devices `yaml:"devices"`
	// EventLog configures the remote event log client.
	EventLog EventLog `yaml:"event_log"`
	// Notifier selects and configures the fallback notifier.
	Notifier Notifier `yaml:"notifier"`
	// Collector configures eventlog-server.
	Collector Collector `yaml:"collector"`
}

// Bank describes one simulated device bank.
type Bank struct {
	// Count is the number of units; zero disables the bank.
	Count int `yaml:"count"`
	// Faulty lists unit indices that start out faulty.
	Faulty []int `yaml:"faulty,omitempty"`
}

// Devices groups the three device banks.
type Devices struct {
	Doors     Bank `yaml:"doors"`
	Lights    Bank `yaml:"lights"`
	FireAlarm Bank `yaml:"fire_alarm"`
}

// EventLog configures the gRPC event log client.
type EventLog struct {
	// Address of the collector; empty runs without an event log.
	Address string `yaml:"address,omitempty"`
	// Timeout bounds each event log call.
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// LogModeChanges records every committed transition.
	LogModeChanges bool `yaml:"log_mode_changes,omitempty"`
}

// Notifier kinds.
const (
	NotifierLog     = "log"
	NotifierSMTP    = "smtp"
	NotifierWebhook = "webhook"
)

// Notifier selects the fallback channel.
type Notifier struct {
	// Kind is one of log, smtp or webhook.
	Kind    string  `yaml:"kind,omitempty"`
	SMTP    SMTP    `yaml:"smtp,omitempty"`
	Webhook Webhook `yaml:"webhook,omitempty"`
}

// SMTP configures e-mail delivery.
type SMTP struct {
	Address  string `yaml:"address"`
	From     string `yaml:"from"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// Webhook configures HTTP delivery.
type Webhook struct {
	URL        string `yaml:"url"`
	MaxRetries uint64 `yaml:"max_retries,omitempty"`
}

// Collector configures the event log collector.
type Collector struct {
	// ListenAddress is the gRPC listen address, e.g. ":50061".
	ListenAddress string `yaml:"listen_address,omitempty"`
	// StoreFile is the JSON-lines file receiving entries.
	StoreFile string `yaml:"store_file,omitempty"`
	// MetricsAddress serves /metrics when set.
	MetricsAddress string `yaml:"metrics_address,omitempty"`
}

const (
	// DefaultConfigFilename is the default settings file name.
	DefaultConfigFilename = "office-settings.yaml"

	// DefaultStoreFilename is the default collector store file name.
	DefaultStoreFilename = "office-events.jsonl"

	// DefaultTimeout bounds event log and notifier calls.
	DefaultTimeout = 5 * time.Second

	// DefaultLockDir holds facility lock files.
	DefaultLockDir = "."

	// DefaultWebhookRetries is used when max_retries is not set.
	DefaultWebhookRetries = 3

	// DefaultFilePermissions is used for settings, store and lock files.
	DefaultFilePermissions = 0o600
)

var (
	errConfigIsNotSet       = errors.New("configuration is not set")
	errOfficeIDRequired     = errors.New("office_id must be provided")
	errUnknownLogLevel      = errors.New("unknown log level")
	errUnknownNotifier      = errors.New("unknown notifier kind")
	errSMTPAddressRequired  = errors.New("notifier.smtp.address must be provided")
	errWebhookURLRequired   = errors.New("notifier.webhook.url must be provided")
	errNegativeCount        = errors.New("device count must not be negative")
	errFaultyUnitOutOfRange = errors.New("faulty unit out of range")
)

// Load reads configuration from path (or the default file) and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save validates cfg and writes it to path (or the default file).
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills defaults in place.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if strings.TrimSpace(cfg.OfficeID) == "" {
		return errOfficeIDRequired
	}

	if cfg.InitialMode != "" {
		if _, err := office.ParseInitialMode(cfg.InitialMode); err != nil {
			return fmt.Errorf("initial_mode %q: %w", cfg.InitialMode, err)
		}
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("log_level %q: %w", cfg.LogLevel, errUnknownLogLevel)
	}

	if cfg.LockDir == "" {
		cfg.LockDir = DefaultLockDir
	}

	for name, bank := range map[string]Bank{
		"doors":      cfg.Devices.Doors,
		"lights":     cfg.Devices.Lights,
		"fire_alarm": cfg.Devices.FireAlarm,
	} {
		if err := validateBank(bank); err != nil {
			return fmt.Errorf("devices.%s: %w", name, err)
		}
	}

	if err := validateEventLog(&cfg.EventLog); err != nil {
		return err
	}

	if err := validateNotifier(&cfg.Notifier); err != nil {
		return err
	}

	if cfg.Collector.StoreFile == "" {
		cfg.Collector.StoreFile = DefaultStoreFilename
	}

	return nil
}

func validateBank(bank Bank) error {
	if bank.Count < 0 {
		return errNegativeCount
	}

	for _, id := range bank.Faulty {
		if id < 0 || id >= bank.Count {
			return fmt.Errorf("unit %d: %w", id, errFaultyUnitOutOfRange)
		}
	}

	return nil
}

func validateEventLog(settings *EventLog) error {
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if settings.Address == "" {
		return nil
	}

	if _, err := net.ResolveTCPAddr("tcp", settings.Address); err != nil {
		return fmt.Errorf("invalid event log address: %w", err)
	}

	return nil
}

func validateNotifier(settings *Notifier) error {
	settings.Kind = strings.ToLower(strings.TrimSpace(settings.Kind))
	if settings.Kind == "" {
		settings.Kind = NotifierLog
	}

	switch settings.Kind {
	case NotifierLog:
		return nil
	case NotifierSMTP:
		if settings.SMTP.Address == "" {
			return errSMTPAddressRequired
		}

		if _, _, err := net.SplitHostPort(settings.SMTP.Address); err != nil {
			return fmt.Errorf("invalid smtp address: %w", err)
		}

		if _, err := mail.ParseAddress(settings.SMTP.From); err != nil {
			return fmt.Errorf("invalid smtp sender: %w", err)
		}

		return nil
	case NotifierWebhook:
		if settings.Webhook.URL == "" {
			return errWebhookURLRequired
		}

		if _, err := url.ParseRequestURI(settings.Webhook.URL); err != nil {
			return fmt.Errorf("invalid webhook url: %w", err)
		}

		if settings.Webhook.MaxRetries == 0 {
			settings.Webhook.MaxRetries = DefaultWebhookRetries
		}

		return nil
	default:
		return fmt.Errorf("%q: %w", settings.Kind, errUnknownNotifier)
	}
}
