package config

import "os"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Database: DatabaseConfig{
			Path: "~/.meetingprep/prepd.db",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
	}
}

// WriteDefault writes the default global configuration to a file
func WriteDefault(path string) error {
	content := `# prepd configuration
version: "1"

# SQLite record store (users + briefing run logs)
database:
  path: ~/.meetingprep/prepd.db

# On-demand trigger server
http:
  addr: ":8080"

# Completion model. The API key comes from the OPENAI_API_KEY env var.
openai:
  model: gpt-4o-mini

# Google OAuth client credentials come from the GOOGLE_CLIENT_ID and
# GOOGLE_CLIENT_SECRET env vars.
`
	return os.WriteFile(path, []byte(content), 0644)
}
