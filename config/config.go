package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	JWTKey string

	// Identity provider. "jwt" uses the local sandbox provider, "remote"
	// validates tokens against IdentityApiURL.
	AuthMode       string
	IdentityApiURL string
	IdentityApiKey string

	SendGridApiKey string
	EmailSender    string

	Currency string

	GatewayApiURL    string // Card-network gateway base URL
	GatewaySecretKey string
	FrontendURL      string // Redirect target for checkout success/cancel

	UploadDir string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		AuthMode:       getEnv("AUTH_MODE", "jwt"),
		IdentityApiURL: getEnv("IDENTITY_API_URL", "https://api.identity.example.com/v1"),
		IdentityApiKey: getEnv("IDENTITY_API_KEY", ""),

		SendGridApiKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@lms.local"),

		Currency: getEnv("CURRENCY", "usd"),

		GatewayApiURL:    getEnv("GATEWAY_API_URL", "https://api.gateway.example.com/v1"),
		GatewaySecretKey: getEnv("GATEWAY_SECRET_KEY", ""),
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:5173"),

		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.AuthMode == "remote" && AppConfig.IdentityApiKey == "" {
		log.Println("Warning: AUTH_MODE is remote but IDENTITY_API_KEY is empty.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
