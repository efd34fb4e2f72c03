package config

// Config is the full prepd configuration. Secrets (OAuth client, OpenAI key)
// are read from the environment, never from the file.
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	HTTP     HTTPConfig     `yaml:"http" mapstructure:"http"`
	OpenAI   OpenAIConfig   `yaml:"openai" mapstructure:"openai"`
	Google   GoogleConfig   `yaml:"-" mapstructure:"-"`
}

// DatabaseConfig locates the SQLite record store.
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// HTTPConfig configures the on-demand trigger server.
type HTTPConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// OpenAIConfig selects the completion model. The API key comes from
// OPENAI_API_KEY.
type OpenAIConfig struct {
	APIKey string `yaml:"-" mapstructure:"-"`
	Model  string `yaml:"model" mapstructure:"model"`
}

// GoogleConfig holds the OAuth client credentials, from GOOGLE_CLIENT_ID and
// GOOGLE_CLIENT_SECRET.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
}
