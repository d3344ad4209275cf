package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Session      Session
	Calibration  Calibration
	RabbitURI    string
	JWTSecret    string
	GeminiApiKey string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Session struct {
	// ExtendDeadlineOnPause controls whether paused time is given back
	// on resume. Off by default: the clock keeps running while paused.
	ExtendDeadlineOnPause bool
}

type Calibration struct {
	// IntervalHours between calibration batches.
	IntervalHours int
	// MinResponses a question needs before it is calibrated.
	MinResponses int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CALIBRATION_INTERVAL_HOURS", 24)
	viper.SetDefault("CALIBRATION_MIN_RESPONSES", 10)
	viper.SetDefault("SESSION_EXTEND_DEADLINE_ON_PAUSE", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Session.ExtendDeadlineOnPause = viper.GetBool("SESSION_EXTEND_DEADLINE_ON_PAUSE")
	config.Calibration.IntervalHours = viper.GetInt("CALIBRATION_INTERVAL_HOURS")
	config.Calibration.MinResponses = viper.GetInt("CALIBRATION_MIN_RESPONSES")

	config.RabbitURI = viper.GetString("RABBITMQ_URI")
	config.JWTSecret = viper.GetString("JWT_SECRET")
	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	log.Info().Str("port", config.Server.Port).Msg("Config loaded")
	return &config, nil
}
