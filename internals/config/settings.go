package config

// Settings groups the tunables of the auth and currency subsystems. Values are
// read once at startup from the environment; zero-config defaults mirror the
// hosted deployment.
type Settings struct {
	AppName string
	Addr    string

	// TokenLifetimeDays is how long a freshly issued or refreshed auth token lives
	TokenLifetimeDays int
	// TokenLength is the number of random bytes behind a token key (hex doubles it)
	TokenLength int

	// OTPLifetimeMinutes is how long a one-time code stays usable
	OTPLifetimeMinutes int
	// OTPLength is the number of digits in a one-time code
	OTPLength int

	// UsernameLength is the length of auto-generated usernames at signup
	UsernameLength int

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	// RateAPIKey authenticates against the exchange-rate provider
	RateAPIKey string
	// RateRefreshMinutes is the period of the background quote refresh
	RateRefreshMinutes int
}

// LoadSettings builds Settings from the environment. Call after godotenv has
// loaded the .env file.
func LoadSettings() *Settings {
	return &Settings{
		AppName: GetEnvAsStr("APP_NAME", "currency-exchange-api"),
		Addr:    GetEnvAsStr("APP_ADDR", ":8080"),

		TokenLifetimeDays: GetEnvAsInt("TOKEN_LIFETIME_DAYS", 30, true),
		TokenLength:       GetEnvAsInt("TOKEN_LENGTH", 20, true),

		OTPLifetimeMinutes: GetEnvAsInt("OTP_LIFETIME_MINUTES", 30, true),
		OTPLength:          GetEnvAsInt("OTP_LENGTH", 6, true),

		UsernameLength: GetEnvAsInt("USERNAME_LENGTH", 12, true),

		SMTPHost:     GetEnvAsStr("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     GetEnvAsInt("SMTP_PORT", 587, true),
		SMTPUser:     GetEnv("SMTP_USER"),
		SMTPPassword: GetEnv("SMTP_PASSWORD"),

		RateAPIKey:         GetEnv("RATE_API_KEY"),
		RateRefreshMinutes: GetEnvAsInt("RATE_REFRESH_MINUTES", 60, true),
	}
}
