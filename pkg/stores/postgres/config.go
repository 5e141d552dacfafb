package postgres

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds PostgreSQL-specific configuration.
// Parsed from core.StoreConfig.Params using mapstructure.
type Params struct {
	// SSLMode overrides the default sslmode ("disable") when options.sslmode is unset.
	SSLMode string `mapstructure:"sslmode"`

	// ConnectTimeout in seconds; 0 leaves the driver default.
	ConnectTimeout int `mapstructure:"connect_timeout"`

	// ApplicationName is reported in pg_stat_activity.
	ApplicationName string `mapstructure:"application_name"`

	// SearchPath sets the schema search path for the session.
	SearchPath string `mapstructure:"search_path"`

	// MaxOpenConns caps the connection pool; 0 means unlimited.
	MaxOpenConns int `mapstructure:"max_open_conns"`
}

// ParseParams decodes raw config params into Params.
// Scalars given as strings (e.g. from environment variables) are converted.
func ParseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if len(raw) == 0 {
		return p, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid postgres params: %w", err)
	}
	return p, nil
}
