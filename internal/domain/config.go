package domain

// Config holds the complete Harrier configuration.
type Config struct {
	// Server settings
	Server ServerConfig `json:"server"`

	// Tier determines infrastructure choices
	Tier Tier `json:"tier"`

	// Detection policy: every threshold the engine applies, as data.
	Thresholds Thresholds `json:"thresholds"`

	// Scheduler settings
	Scheduler SchedulerConfig `json:"scheduler"`

	// Component configurations
	Repository RepositoryConfig `json:"repository"`
	Cache      CacheConfig      `json:"cache"`
	EventBus   EventBusConfig   `json:"eventBus"`

	// Observability
	Logging LoggingConfig `json:"logging"`
	Tracing TracingConfig `json:"tracing"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	ReadTimeout  int    `json:"readTimeout"`  // seconds
	WriteTimeout int    `json:"writeTimeout"` // seconds
}

// SchedulerConfig controls the periodic batch run trigger.
type SchedulerConfig struct {
	// Enabled starts the interval scheduler; runs can always be
	// triggered manually via the API or the bus.
	Enabled bool `json:"enabled"`

	// IntervalHours between automatic engine runs.
	IntervalHours int `json:"intervalHours"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled      bool   `json:"enabled"`
	ServiceName  string `json:"serviceName"`
	ExporterType string `json:"exporterType"` // stdout, otlp, jaeger
	Endpoint     string `json:"endpoint"`
}

// Tier represents the deployment tier.
type Tier string

const (
	// TierCommunity runs on SQLite + channels + local cache.
	TierCommunity Tier = "community"

	// TierPro runs on PostgreSQL + NATS + Redis.
	TierPro Tier = "pro"
)

// Thresholds is the detection policy. Every magic number the detectors
// and the composite scorer apply lives here so the policy is data, not
// scattered literals. DefaultThresholds documents each value.
type Thresholds struct {
	// Sales drop detector (quarterly)
	SalesDropPct        float64 `json:"salesDropPct"`        // fire below this % change
	SalesDropLookback   int     `json:"salesDropLookback"`   // trailing periods considered
	SalesDropMinPeriods int     `json:"salesDropMinPeriods"` // required prior periods
	EstimatedTaxRate    float64 `json:"estimatedTaxRate"`    // revenue impact factor

	// Payroll/revenue mismatch detector (annual, corporate)
	SalaryRatioLow      float64 `json:"salaryRatioLow"`      // normal band lower %
	SalaryRatioHigh     float64 `json:"salaryRatioHigh"`     // normal band upper %
	SalaryRatioSevere   float64 `json:"salaryRatioSevere"`   // top score below this %
	SalaryRatioModerate float64 `json:"salaryRatioModerate"` // mid score below this %
	SalaryImpactRate    float64 `json:"salaryImpactRate"`    // revenue impact factor

	// Payment pattern detector (trailing months)
	PaymentWindowMonths  int     `json:"paymentWindowMonths"`
	PaymentVarianceLimit float64 `json:"paymentVarianceLimit"` // stddev/mean
	PaymentChannelLimit  int     `json:"paymentChannelLimit"`  // distinct channels
	PaymentImpactRate    float64 `json:"paymentImpactRate"`

	// Peer cohort deviation detector
	PeerDeviationPct float64 `json:"peerDeviationPct"` // fire below this % deviation

	// Chronic non-compliance detector
	LowComplianceRate float64 `json:"lowComplianceRate"`
	OpenAlertLimit    int     `json:"openAlertLimit"`
	ChronicImpactRate float64 `json:"chronicImpactRate"`
	ChronicLateDays   float64 `json:"chronicLateDays"` // mean lateness flag

	// Composite scorer
	AlertScoreFloor float64 `json:"alertScoreFloor"`
}

// DefaultThresholds returns the standard detection policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SalesDropPct:        -30,  // >30% drop vs trailing average
		SalesDropLookback:   4,    // trailing 4 quarters
		SalesDropMinPeriods: 2,    // at least 2 prior quarters
		EstimatedTaxRate:    0.15, // statutory VAT rate

		SalaryRatioLow:      20, // salaries below 20% of turnover
		SalaryRatioHigh:     80, // or above 80% of turnover
		SalaryRatioSevere:   10, // scores 0.8 below this
		SalaryRatioModerate: 15, // scores 0.6 below this, 0.4 otherwise
		SalaryImpactRate:    0.1,

		PaymentWindowMonths:  6,
		PaymentVarianceLimit: 2, // coefficient of variation
		PaymentChannelLimit:  3, // distinct channels
		PaymentImpactRate:    0.05,

		PeerDeviationPct: -50, // >50% below cohort mean

		LowComplianceRate: 0.5,
		OpenAlertLimit:    2,
		ChronicImpactRate: 0.2,
		ChronicLateDays:   30,

		AlertScoreFloor: 0.4,
	}
}

// DefaultConfig returns a default configuration for the Community tier.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30,
			WriteTimeout: 30,
		},
		Tier:       TierCommunity,
		Thresholds: DefaultThresholds(),
		Scheduler: SchedulerConfig{
			Enabled:       false,
			IntervalHours: 24,
		},
		Repository: RepositoryConfig{
			Driver:     "sqlite",
			SQLitePath: "./harrier.db",
		},
		Cache: CacheConfig{
			Type:         "memory",
			LocalMaxSize: 10000,
			LocalTTL:     300, // 5 minutes
		},
		EventBus: EventBusConfig{
			Type:              "channel",
			ChannelBufferSize: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "harrier",
		},
	}
}

// ProConfig returns a configuration for the Pro tier.
func ProConfig() *Config {
	cfg := DefaultConfig()
	cfg.Tier = TierPro
	cfg.Scheduler.Enabled = true
	cfg.Repository = RepositoryConfig{
		Driver:       "postgres",
		PostgresHost: "localhost",
		PostgresPort: 5432,
		PostgresDB:   "harrier",
	}
	cfg.Cache = CacheConfig{
		Type:           "redis",
		RedisAddr:      "localhost:6379",
		EnableTwoPhase: true,
		LocalMaxSize:   1000,
	}
	cfg.EventBus = EventBusConfig{
		Type:              "nats",
		NATSUrl:           "nats://localhost:4222",
		NATSMaxReconnects: 10,
		NATSReconnectWait: 5,
	}
	cfg.Tracing.Enabled = true
	return cfg
}
