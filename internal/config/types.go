package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	Slack         SlackConfig
	ProjectID     string
	Admin         AdminConfig
	Timezone      string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// AdminConfig carries the injected allowlist for privileged operations such as
// the season reset. It replaces the compiled-in admin constants of the old
// front end.
type AdminConfig struct {
	Tokens []string
}

// IsAdminToken reports whether the given token is on the allowlist.
func (a AdminConfig) IsAdminToken(token string) bool {
	if token == "" {
		return false
	}
	for _, t := range a.Tokens {
		if t == token {
			return true
		}
	}
	return false
}
