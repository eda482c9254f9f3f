package config

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Storage struct {
	// One of sqlite3, postgres or mysql.
	Driver   string         `mapstructure:"driver"`
	SQLite   *SQLiteStorage `mapstructure:"sqlite,omitempty"`
	Postgres *ServerStorage `mapstructure:"postgres,omitempty"`
	MySQL    *ServerStorage `mapstructure:"mysql,omitempty"`
}

type SQLiteStorage struct {
	Path string `mapstructure:"path,omitempty"`
}

// ServerStorage holds a driver specific DSN. MySQL DSNs need parseTime=true.
type ServerStorage struct {
	DSN string `mapstructure:"dsn,omitempty"`
}
