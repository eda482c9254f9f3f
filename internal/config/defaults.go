package config

var defaults = map[string]any{
	"secret":    "",
	"token_ttl": 8 * 60 * 60,
	"log_level": "info",
	"listen":    ":8080",

	"allowed_networks": "",
	"cors_origins":     []string{},
	"timezone":         "",

	"nonce_store":            "memory",
	"nonce_janitor_interval": "1m",

	"login_rate_per_minute": 10,
	"login_burst":           5,

	"fallback_admin.username":      "admin",
	"fallback_admin.password":      "",
	"fallback_admin.password_hash": "",

	"notify.recipients": []string{},
	"notify.timeout":    "30s",

	"email.host":     "host.docker.internal",
	"email.port":     25,
	"email.username": "",
	"email.password": "",
	"email.from":     "noreply@example.com",
	"email.tls":      "opportunistic",

	"export.filename": DEFAULT_EXPORT_PREFIX,
	"export.bom":      false,

	"storage.driver":       "sqlite3",
	"storage.sqlite.path":  "./data/logbook.db",
	"storage.postgres.dsn": "",
	"storage.mysql.dsn":    "",
}

func Defaults() map[string]any {
	values := make(map[string]any)
	for k, v := range defaults {
		values[k] = v
	}
	return values
}
