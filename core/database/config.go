package database

// Config holds the outfit catalog connection settings.
type Config struct {
	// Driver selects the dialect: "sqlite" (default, file based) or "mysql".
	Driver string `mapstructure:"driver" default:"sqlite"`
	// Name is the MySQL schema, or the SQLite file path (":memory:" for tests).
	Name string `mapstructure:"name" default:"tailor.db"`

	// Host, Port, User and Password are only used by MySQL.
	Host     string `mapstructure:"host" default:"localhost"`
	Port     int    `mapstructure:"port" default:"3306"`
	User     string `mapstructure:"user" default:"root"`
	Password string `mapstructure:"password" default:""`

	// TimeoutSeconds bounds the connection ping and MySQL I/O.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
