package cmd

// Config carries the environment-supplied settings for the application.
// Duration fields use Go duration syntax, for example "30m" or "45s".
type Config struct {
	HTTPPort            string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBSslMode           string
	RedisAddr           string
	RedisPassword       string
	EscalationThreshold string
	HeartbeatInterval   string
	SessionTimeout      string
}
