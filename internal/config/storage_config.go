package config

// StorageConfig defines configuration for the product and subscription store
type StorageConfig struct {
	SQLiteDBPath string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty" validate:"omitempty,sqlitepath"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		SQLiteDBPath: DefaultStorageSQLiteDBPath,
	}
}
