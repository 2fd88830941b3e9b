package lineshape

type config struct {
	dispersion Dispersion
}

// Option configures lineshape evaluation.
type Option func(*config)

// WithDispersion selects the dispersion computation.
func WithDispersion(d Dispersion) Option {
	return func(cfg *config) {
		cfg.dispersion = d
	}
}

func applyOptions(opts []Option) config {
	cfg := config{dispersion: DispersionAnalytic}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
