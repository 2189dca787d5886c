package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Hub       HubConfig
	Maps      MapsConfig
	Schedule  ScheduleConfig
	Pricing   PricingConfig
	Routing   RoutingConfig
	MQTT      MQTTConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// HubConfig is the fixed origin/destination for all distance and route work.
type HubConfig struct {
	Address string
	Lat     float64
	Lng     float64
}

type MapsConfig struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	MaxWaypoints int
}

type ScheduleConfig struct {
	WindowDays        int
	OpenHour          int
	CloseHour         int
	SlotCapacity      int
	SameDayCutoffHour int
	CancelNoticeHours int
}

type PricingConfig struct {
	MarginRate       float64
	MaxAutoKm        float64
	MaxAutoMinutes   int
	RoadFactor       float64
	AverageSpeedKmh  float64
}

type RoutingConfig struct {
	FuelCostPerKm     float64
	ServiceMinutes    int
	TwoOptPasses      int
	RouteCacheTTL     time.Duration
}

type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
	Enabled  bool
}

type RateLimitConfig struct {
	GeneralRPS   float64
	GeneralBurst int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			if _, statErr := os.Stat(".env"); !os.IsNotExist(statErr) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		Hub: HubConfig{
			Address: viper.GetString("HUB_ADDRESS"),
			Lat:     viper.GetFloat64("HUB_LAT"),
			Lng:     viper.GetFloat64("HUB_LNG"),
		},
		Maps: MapsConfig{
			APIKey:       viper.GetString("MAPS_API_KEY"),
			BaseURL:      viper.GetString("MAPS_BASE_URL"),
			Timeout:      viper.GetDuration("MAPS_TIMEOUT"),
			MaxWaypoints: viper.GetInt("MAPS_MAX_WAYPOINTS"),
		},
		Schedule: ScheduleConfig{
			WindowDays:        viper.GetInt("SCHEDULE_WINDOW_DAYS"),
			OpenHour:          viper.GetInt("SCHEDULE_OPEN_HOUR"),
			CloseHour:         viper.GetInt("SCHEDULE_CLOSE_HOUR"),
			SlotCapacity:      viper.GetInt("SCHEDULE_SLOT_CAPACITY"),
			SameDayCutoffHour: viper.GetInt("SCHEDULE_SAMEDAY_CUTOFF_HOUR"),
			CancelNoticeHours: viper.GetInt("SCHEDULE_CANCEL_NOTICE_HOURS"),
		},
		Pricing: PricingConfig{
			MarginRate:      viper.GetFloat64("PRICING_MARGIN_RATE"),
			MaxAutoKm:       viper.GetFloat64("PRICING_MAX_AUTO_KM"),
			MaxAutoMinutes:  viper.GetInt("PRICING_MAX_AUTO_MINUTES"),
			RoadFactor:      viper.GetFloat64("PRICING_ROAD_FACTOR"),
			AverageSpeedKmh: viper.GetFloat64("PRICING_AVG_SPEED_KMH"),
		},
		Routing: RoutingConfig{
			FuelCostPerKm:  viper.GetFloat64("ROUTING_FUEL_COST_PER_KM"),
			ServiceMinutes: viper.GetInt("ROUTING_SERVICE_MINUTES"),
			TwoOptPasses:   viper.GetInt("ROUTING_TWO_OPT_PASSES"),
			RouteCacheTTL:  viper.GetDuration("ROUTING_CACHE_TTL"),
		},
		MQTT: MQTTConfig{
			Broker:   viper.GetString("MQTT_BROKER"),
			ClientID: viper.GetString("MQTT_CLIENT_ID"),
			Username: viper.GetString("MQTT_USERNAME"),
			Password: viper.GetString("MQTT_PASSWORD"),
			Topic:    viper.GetString("MQTT_TOPIC"),
			Enabled:  viper.GetBool("MQTT_ENABLED"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENVIRONMENT", "development")

	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("MAPS_BASE_URL", "https://maps.googleapis.com")
	viper.SetDefault("MAPS_TIMEOUT", "5s")
	viper.SetDefault("MAPS_MAX_WAYPOINTS", 25)

	viper.SetDefault("SCHEDULE_WINDOW_DAYS", 14)
	viper.SetDefault("SCHEDULE_OPEN_HOUR", 12)
	viper.SetDefault("SCHEDULE_CLOSE_HOUR", 20)
	viper.SetDefault("SCHEDULE_SLOT_CAPACITY", 3)
	viper.SetDefault("SCHEDULE_SAMEDAY_CUTOFF_HOUR", 15)
	viper.SetDefault("SCHEDULE_CANCEL_NOTICE_HOURS", 2)

	viper.SetDefault("PRICING_MARGIN_RATE", 0.30)
	viper.SetDefault("PRICING_MAX_AUTO_KM", 35.0)
	viper.SetDefault("PRICING_MAX_AUTO_MINUTES", 60)
	viper.SetDefault("PRICING_ROAD_FACTOR", 1.20)
	viper.SetDefault("PRICING_AVG_SPEED_KMH", 35.0)

	viper.SetDefault("ROUTING_FUEL_COST_PER_KM", 0.18)
	viper.SetDefault("ROUTING_SERVICE_MINUTES", 15)
	viper.SetDefault("ROUTING_TWO_OPT_PASSES", 2)
	viper.SetDefault("ROUTING_CACHE_TTL", "5m")

	viper.SetDefault("MQTT_CLIENT_ID", "buyback-logistics")
	viper.SetDefault("MQTT_TOPIC", "buyback/appointments")

	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 20.0)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)
}
