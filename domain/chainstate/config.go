package chainstate

// DefaultCacheSize is the number of records each store keeps in
// memory when no other size is configured
const DefaultCacheSize = 10_000

// Config holds the settings of a ChainState
type Config struct {
	// CacheSize is the number of records each store keeps in memory
	CacheSize int
}

// DefaultConfig returns a Config with the default settings
func DefaultConfig() *Config {
	return &Config{
		CacheSize: DefaultCacheSize,
	}
}
