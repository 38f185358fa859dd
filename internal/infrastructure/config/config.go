package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the credit risk service.
type Config struct {
	// Service name for observability
	ServiceName string
	Environment string
	// gRPC server port
	GRPCPort       int
	GRPCReflection bool
	// Optional gRPC TLS; both files must be set
	GRPCTLSCertFile string
	GRPCTLSKeyFile  string
	// HTTP API, form, health and metrics port
	HTTPPort int
	Log      LogConfig
	// Persisted artifacts produced by the training job
	Artifacts ArtifactConfig
	// Database configuration, used only by the audit sink
	Database DatabaseConfig
	Audit    AuditConfig
	Kafka    KafkaConfig
	Tracing  TracingConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// ArtifactConfig locates the fitted scaler and classifier.
type ArtifactConfig struct {
	ModelPath  string
	ScalerPath string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns the PostgreSQL connection URL. Credentials are escaped.
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// AuditConfig controls the best-effort audit dispatcher.
type AuditConfig struct {
	Enabled     bool
	Timeout     time.Duration
	MaxInFlight int
}

// KafkaConfig holds Kafka connection settings. No brokers disables the
// event sink.
type KafkaConfig struct {
	Brokers       []string
	Topic         string
	TLS           bool
	SASLEnabled   bool
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
}

// TracingConfig holds OTLP export settings. An empty endpoint disables export.
type TracingConfig struct {
	Endpoint    string
	SampleRatio float64
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		ServiceName:     getEnv("SERVICE_NAME", "creditriskd"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		GRPCPort:        getEnvInt("GRPC_PORT", 9090),
		GRPCReflection:  getEnvBool("GRPC_REFLECTION", false),
		GRPCTLSCertFile: getEnv("GRPC_TLS_CERT_FILE", ""),
		GRPCTLSKeyFile:  getEnv("GRPC_TLS_KEY_FILE", ""),
		HTTPPort:        getEnvInt("HTTP_PORT", 8000),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Artifacts: ArtifactConfig{
			ModelPath:  getEnv("MODEL_PATH", "models/model.json"),
			ScalerPath: getEnv("SCALER_PATH", "models/scaler.json"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Database: getEnv("DB_NAME", "credit_risk"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Audit: AuditConfig{
			Enabled:     getEnvBool("AUDIT_ENABLED", true),
			Timeout:     getEnvDuration("AUDIT_TIMEOUT", 5*time.Second),
			MaxInFlight: getEnvInt("AUDIT_MAX_INFLIGHT", 64),
		},
		Kafka: KafkaConfig{
			Brokers:       getEnvList("KAFKA_BROKERS"),
			Topic:         getEnv("KAFKA_TOPIC", "credit-risk.predictions"),
			TLS:           getEnvBool("KAFKA_TLS", false),
			SASLEnabled:   getEnvBool("KAFKA_SASL_ENABLED", false),
			SASLMechanism: strings.ToUpper(getEnv("KAFKA_SASL_MECHANISM", "PLAIN")),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		},
		Tracing: TracingConfig{
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			SampleRatio: getEnvFloat("OTEL_SAMPLING_RATIO", 1.0),
		},
	}
}

// Validate checks configuration values and reports every problem found.
func (c Config) Validate() error {
	var errs []error
	if !validPort(c.HTTPPort) {
		errs = append(errs, fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.HTTPPort))
	}
	if !validPort(c.GRPCPort) {
		errs = append(errs, fmt.Errorf("GRPC_PORT must be between 1 and 65535, got %d", c.GRPCPort))
	}
	if c.HTTPPort == c.GRPCPort {
		errs = append(errs, fmt.Errorf("HTTP_PORT and GRPC_PORT must differ"))
	}
	if (c.GRPCTLSCertFile == "") != (c.GRPCTLSKeyFile == "") {
		errs = append(errs, fmt.Errorf("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together"))
	}
	if f := strings.ToLower(c.Log.Format); f != "json" && f != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Log.Format))
	}
	if c.Artifacts.ModelPath == "" || c.Artifacts.ScalerPath == "" {
		errs = append(errs, fmt.Errorf("MODEL_PATH and SCALER_PATH are required"))
	}
	if c.Audit.Enabled {
		if p, err := strconv.Atoi(c.Database.Port); err != nil || !validPort(p) {
			errs = append(errs, fmt.Errorf("DB_PORT must be a port number, got %q", c.Database.Port))
		}
	}
	// The dispatcher settings apply to every sink, not only Postgres.
	if c.Audit.Enabled || len(c.Kafka.Brokers) > 0 {
		if c.Audit.Timeout <= 0 {
			errs = append(errs, fmt.Errorf("AUDIT_TIMEOUT must be positive"))
		}
		if c.Audit.MaxInFlight <= 0 {
			errs = append(errs, fmt.Errorf("AUDIT_MAX_INFLIGHT must be positive"))
		}
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set"))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.SASLEnabled {
		switch c.Kafka.SASLMechanism {
		case "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512":
		default:
			errs = append(errs, fmt.Errorf("KAFKA_SASL_MECHANISM must be PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512, got %q", c.Kafka.SASLMechanism))
		}
		if c.Kafka.SASLUsername == "" {
			errs = append(errs, fmt.Errorf("KAFKA_SASL_USERNAME is required when KAFKA_SASL_ENABLED is set"))
		}
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("OTEL_SAMPLING_RATIO must be in [0, 1]"))
	}
	return errors.Join(errs...)
}

// GRPCAddress returns the full gRPC listen address.
func (c Config) GRPCAddress() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func validPort(p int) bool {
	return p > 0 && p <= 65535
}

func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// Unparseable numeric values become out of range so Validate reports them.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
		return -1
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
		return -1
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		return 0
	}
	return defaultVal
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
