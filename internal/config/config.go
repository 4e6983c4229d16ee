package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rocjay1/jars-ledger/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

type Config struct {
	// HTTP server
	Port      string
	LogLevel  string
	LogFormat string

	// Ledger
	BaseCurrency  string
	USDRate       decimal.Decimal
	EURRate       decimal.Decimal
	FamilyMembers string
	SeedDemo      bool

	// Azure storage; empty URLs disable the feature
	BlobServiceURL  string
	QueueServiceURL string
	TableServiceURL string
	ArchiveTable    string

	// Email
	CommunicationServicesEndpoint string
	SenderEmail                   string
	UserEmail                     string

	// Advice
	AdviceAPIURL string
	AdviceAPIKey string
	AdviceModel  string

	// Scheduling
	MonthCloseSchedule string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		BaseCurrency:  strings.ToUpper(getEnv("BASE_CURRENCY", string(models.CurrencyCOP))),
		USDRate:       getEnvDecimal("USD_RATE", decimal.NewFromInt(4000)),
		EURRate:       getEnvDecimal("EUR_RATE", decimal.NewFromInt(4300)),
		FamilyMembers: getEnv("FAMILY_MEMBERS", ""),
		SeedDemo:      getEnvBool("SEED_DEMO", false),

		BlobServiceURL:  getEnv("BLOB_SERVICE_URL", ""),
		QueueServiceURL: getEnv("QUEUE_SERVICE_URL", ""),
		TableServiceURL: getEnv("TABLE_SERVICE_URL", ""),
		ArchiveTable:    getEnv("ARCHIVE_TABLE", "monthlyarchive"),

		CommunicationServicesEndpoint: getEnv("COMMUNICATION_SERVICES_ENDPOINT", ""),
		SenderEmail:                   getEnv("SENDER_EMAIL", ""),
		UserEmail:                     getEnv("USER_EMAIL", ""),

		AdviceAPIURL: getEnv("ADVICE_API_URL", ""),
		AdviceAPIKey: getEnv("ADVICE_API_KEY", ""),
		AdviceModel:  getEnv("ADVICE_MODEL", "gemini-2.5-flash"),

		MonthCloseSchedule: getEnv("MONTH_CLOSE_SCHEDULE", "5 0 1 * *"),
	}
}

// Validate validates the configuration and returns an error listing every problem.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if !models.CurrencyCode(c.BaseCurrency).Valid() {
		errors = append(errors, fmt.Sprintf("invalid base currency '%s': must be one of %v", c.BaseCurrency, models.SupportedCurrencies))
	}
	if !c.USDRate.IsPositive() {
		errors = append(errors, fmt.Sprintf("invalid USD rate %s: must be greater than zero", c.USDRate))
	}
	if !c.EURRate.IsPositive() {
		errors = append(errors, fmt.Sprintf("invalid EUR rate %s: must be greater than zero", c.EURRate))
	}
	if _, err := c.Members(); err != nil {
		errors = append(errors, err.Error())
	}

	for name, raw := range map[string]string{
		"blob service URL":                c.BlobServiceURL,
		"queue service URL":               c.QueueServiceURL,
		"table service URL":               c.TableServiceURL,
		"communication services endpoint": c.CommunicationServicesEndpoint,
		"advice API URL":                  c.AdviceAPIURL,
	} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid %s '%s'", name, raw))
		}
	}

	if c.CommunicationServicesEndpoint != "" && c.SenderEmail == "" {
		errors = append(errors, "sender email is required when the communication services endpoint is set")
	}

	if _, err := cron.ParseStandard(c.MonthCloseSchedule); err != nil {
		errors = append(errors, fmt.Sprintf("invalid month close schedule '%s': %v", c.MonthCloseSchedule, err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Members parses FAMILY_MEMBERS, a comma separated list of id:Name[:Role].
// An empty value yields nil, meaning the default roster.
func (c *Config) Members() ([]models.FamilyMember, error) {
	if strings.TrimSpace(c.FamilyMembers) == "" {
		return nil, nil
	}

	var members []models.FamilyMember
	seen := map[string]bool{}
	for _, entry := range strings.Split(c.FamilyMembers, ",") {
		parts := strings.Split(strings.TrimSpace(entry), ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("invalid family member '%s': expected id:Name[:Role]", entry)
		}
		id, name := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if id == "" || name == "" {
			return nil, fmt.Errorf("invalid family member '%s': id and name are required", entry)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate family member id '%s'", id)
		}
		seen[id] = true

		role := models.RoleMember
		if len(parts) == 3 {
			switch r := models.Role(strings.TrimSpace(parts[2])); r {
			case models.RoleAdmin, models.RoleMember, models.RoleChild:
				role = r
			default:
				return nil, fmt.Errorf("invalid role '%s' for family member '%s'", parts[2], id)
			}
		}
		members = append(members, models.FamilyMember{ID: id, Name: name, Role: role})
	}
	return members, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return defaultValue
}
