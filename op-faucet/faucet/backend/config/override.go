package config

import "context"

// Override modifies a loaded config.
type Override func(cfg *Config)

// OverrideLoader applies overrides, e.g. from CLI flags, on top of the config of the Base loader.
// The base config itself is not modified.
type OverrideLoader struct {
	Base      Loader
	Overrides []Override
}

var _ Loader = (*OverrideLoader)(nil)

func (l *OverrideLoader) Load(ctx context.Context) (*Config, error) {
	cfg, err := l.Base.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := *cfg
	for _, fn := range l.Overrides {
		fn(&out)
	}
	return &out, nil
}
