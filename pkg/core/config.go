package core

// StoreConfig holds configuration for connecting to a store.
type StoreConfig struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Options  map[string]string
	Params   map[string]any
}

// Option returns the named option, or def when it is unset.
func (c StoreConfig) Option(name, def string) string {
	if v, ok := c.Options[name]; ok && v != "" {
		return v
	}
	return def
}
