package history

import "fmt"

// DefaultSQLitePath is where the sqlite backend keeps its database when no
// connection string is configured.
const DefaultSQLitePath = ".intbench/history.db"

// StoreConfig selects and parameterizes a history backend.
type StoreConfig struct {
	// Type is "sqlite" or "postgres". Empty means sqlite.
	Type string
	// ConnectionString is a file path for sqlite or a DSN for postgres.
	ConnectionString string
}

// NewStore creates a Store from configuration.
func NewStore(cfg StoreConfig) (Store, error) {
	switch cfg.Type {
	case "postgres":
		if cfg.ConnectionString == "" {
			return nil, fmt.Errorf("postgres history requires a connection string")
		}
		return NewPostgresStore(cfg.ConnectionString)
	case "sqlite", "":
		path := cfg.ConnectionString
		if path == "" {
			path = DefaultSQLitePath
		}
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unsupported history store type: %s", cfg.Type)
	}
}
