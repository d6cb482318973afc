package config

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	Turso     TursoConfig
	Gemini    GeminiConfig
	Slack     SlackConfig
	ProjectID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}
