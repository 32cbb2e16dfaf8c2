package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	TwilioAccountSID string `envconfig:"TWILIO_ACCOUNT_SID" required:"true"`
	TwilioAuthToken  string `envconfig:"TWILIO_AUTH_TOKEN" required:"true"`
	WhatsAppNumber   string `envconfig:"TWILIO_WHATSAPP_NUMBER" required:"true"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" required:"true"`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`

	DBPath     string `envconfig:"DB_PATH" default:"./data/receipts.db"`
	CoursesCSV string `envconfig:"COURSES_CSV" default:"./vespid_courses.csv"`

	ExtractTimeout time.Duration `envconfig:"EXTRACT_TIMEOUT" default:"20s"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr       string        `envconfig:"HTTP_ADDR" default:":8080"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
