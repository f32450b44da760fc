// README: Config loader with env defaults for HTTP, Redis, Postgres, Maps, SMTP and tariff rates.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"taxibordeaux/internal/types"
)

// TariffConfig carries the regulated rates, all amounts in euro cents.
type TariffConfig struct {
	BaseFare           int64
	DayRatePerKm       int64
	NightRatePerKm     int64
	HourlyWaitRate     int64
	ExtraPassengerRate int64
	ExtraBagRate       int64
	MinimumFare        int64
	NightStartMinute   int
	NightEndMinute     int
	Currency           string
}

// ZoneConfig is a named pickup/dropoff zone with its regulated supplement.
type ZoneConfig struct {
	Name       string
	Box        types.Box
	Supplement int64
}

type GeoConfig struct {
	MapsAPIKey      string
	DailyQuota      int
	ServiceArea     types.Box
	ServiceCity     string
	CacheNamespace  string
	ProviderTimeout time.Duration
	DefaultLanguage string

	// Flat trip assumption used by callers when the provider is down and no
	// route can be resolved; the booking still goes through on a degraded
	// estimate.
	FallbackTripKm  float64
	FallbackTripMin float64
}

type MailConfig struct {
	SMTPHost    string
	SMTPPort    int
	Username    string
	Password    string
	From        string
	OpsMailbox  string
	MaxAttempts int
	SendSpacing time.Duration
}

type Config struct {
	HTTP struct {
		Addr            string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}
	Redis struct {
		Addr     string
		Password string
	}
	DB struct {
		// DSN is optional; with an empty DSN the rate-override store and the
		// mail delivery audit are disabled.
		DSN string
	}
	Tariff   TariffConfig
	Zones    []ZoneConfig
	Geo      GeoConfig
	Mail     MailConfig
	LogLevel string
}

func Load() (Config, error) {
	var cfg Config
	var errs []error

	cfg.HTTP.Addr = envOrDefault("TAXI_HTTP_ADDR", ":8080")
	cfg.HTTP.ReadTimeout = envOrDefaultDuration("TAXI_HTTP_READ_TIMEOUT", 5*time.Second, &errs)
	cfg.HTTP.WriteTimeout = envOrDefaultDuration("TAXI_HTTP_WRITE_TIMEOUT", 15*time.Second, &errs)
	cfg.HTTP.ShutdownTimeout = envOrDefaultDuration("TAXI_HTTP_SHUTDOWN_TIMEOUT", 10*time.Second, &errs)

	cfg.Redis.Addr = envOrDefault("TAXI_REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = os.Getenv("TAXI_REDIS_PASSWORD")
	cfg.DB.DSN = os.Getenv("TAXI_DB_DSN")

	cfg.Tariff = TariffConfig{
		BaseFare:           envOrDefaultCents("TAXI_TARIFF_BASE_FARE", 280, &errs),
		DayRatePerKm:       envOrDefaultCents("TAXI_TARIFF_DAY_RATE_KM", 212, &errs),
		NightRatePerKm:     envOrDefaultCents("TAXI_TARIFF_NIGHT_RATE_KM", 318, &errs),
		HourlyWaitRate:     envOrDefaultCents("TAXI_TARIFF_WAIT_RATE_HOUR", 2760, &errs),
		ExtraPassengerRate: envOrDefaultCents("TAXI_TARIFF_EXTRA_PASSENGER", 400, &errs),
		ExtraBagRate:       envOrDefaultCents("TAXI_TARIFF_EXTRA_BAG", 200, &errs),
		MinimumFare:        envOrDefaultCents("TAXI_TARIFF_MINIMUM_FARE", 730, &errs),
		NightStartMinute:   envOrDefaultClock("TAXI_TARIFF_NIGHT_START", 21*60, &errs),
		NightEndMinute:     envOrDefaultClock("TAXI_TARIFF_NIGHT_END", 7*60, &errs),
		Currency:           envOrDefault("TAXI_TARIFF_CURRENCY", "EUR"),
	}

	cfg.Zones = []ZoneConfig{
		{
			Name:       "airport",
			Box:        types.Box{MinLat: 44.815, MaxLat: 44.845, MinLng: -0.740, MaxLng: -0.690},
			Supplement: envOrDefaultCents("TAXI_ZONE_AIRPORT_SUPPLEMENT", 0, &errs),
		},
		{
			Name:       "gare_saint_jean",
			Box:        types.Box{MinLat: 44.822, MaxLat: 44.830, MinLng: -0.562, MaxLng: -0.548},
			Supplement: envOrDefaultCents("TAXI_ZONE_STATION_SUPPLEMENT", 0, &errs),
		},
	}

	cfg.Geo = GeoConfig{
		MapsAPIKey:      os.Getenv("TAXI_MAPS_API_KEY"),
		DailyQuota:      envOrDefaultInt("TAXI_GEO_DAILY_QUOTA", 2500, &errs),
		ServiceArea:     types.Box{MinLat: 44.74, MaxLat: 44.95, MinLng: -0.77, MaxLng: -0.42},
		ServiceCity:     envOrDefault("TAXI_GEO_SERVICE_CITY", "Bordeaux"),
		CacheNamespace:  envOrDefault("TAXI_GEO_CACHE_NAMESPACE", "geo"),
		ProviderTimeout: envOrDefaultDuration("TAXI_GEO_PROVIDER_TIMEOUT", 5*time.Second, &errs),
		DefaultLanguage: envOrDefault("TAXI_GEO_LANGUAGE", "fr"),
		FallbackTripKm:  envOrDefaultFloat("TAXI_GEO_FALLBACK_KM", 8.0, &errs),
		FallbackTripMin: envOrDefaultFloat("TAXI_GEO_FALLBACK_MIN", 20.0, &errs),
	}

	cfg.Mail = MailConfig{
		SMTPHost:    envOrDefault("TAXI_SMTP_HOST", "localhost"),
		SMTPPort:    envOrDefaultInt("TAXI_SMTP_PORT", 587, &errs),
		Username:    os.Getenv("TAXI_SMTP_USER"),
		Password:    os.Getenv("TAXI_SMTP_PASSWORD"),
		From:        envOrDefault("TAXI_MAIL_FROM", "reservation@taxibordeaux.example"),
		OpsMailbox:  envOrDefault("TAXI_MAIL_OPS", "exploitation@taxibordeaux.example"),
		MaxAttempts: envOrDefaultInt("TAXI_MAIL_MAX_ATTEMPTS", 3, &errs),
		SendSpacing: envOrDefaultDuration("TAXI_MAIL_SEND_SPACING", 100*time.Millisecond, &errs),
	}

	cfg.LogLevel = envOrDefault("TAXI_LOG_LEVEL", "info")

	if cfg.Geo.DailyQuota <= 0 {
		errs = append(errs, fmt.Errorf("TAXI_GEO_DAILY_QUOTA must be > 0"))
	}
	if cfg.Mail.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("TAXI_MAIL_MAX_ATTEMPTS must be > 0"))
	}

	return cfg, errors.Join(errs...)
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return n
}

func envOrDefaultDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return d
}

func envOrDefaultFloat(key string, def float64, errs *[]error) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return f
}

// envOrDefaultCents reads a euro amount ("2.80") and returns cents.
func envOrDefaultCents(key string, def int64, errs *[]error) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		*errs = append(*errs, fmt.Errorf("invalid %s: %q is not a euro amount", key, v))
		return def
	}
	return int64(math.Floor(f*100 + 0.5))
}

// envOrDefaultClock reads an "HH:MM" clock time and returns minutes since midnight.
func envOrDefaultClock(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	t, err := time.Parse("15:04", v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return t.Hour()*60 + t.Minute()
}
