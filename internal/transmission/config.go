package transmission

import "os"

const (
	DefaultName          = "sparkpost"
	DefaultNumRcptErrors = 3
	KeyEnvVar            = "SPARKPOST_API_KEY"
)

// Config is resolved once when the adapter is created and never changes.
type Config struct {
	Name              string
	Key               string
	NumRcptErrors     int
	Campaign          string
	AlwaysSetMetadata bool
	// SkipKeyCheck is set for transports that authenticate without the key.
	SkipKeyCheck bool
}

type settings struct {
	cfg       Config
	lookupEnv func(string) (string, bool)
}

type Option func(*settings)

func WithKey(key string) Option {
	return func(s *settings) {
		s.cfg.Key = key
	}
}

func WithNumRcptErrors(n int) Option {
	return func(s *settings) {
		s.cfg.NumRcptErrors = n
	}
}

// WithCampaign overrides the campaign id that would otherwise be the template name.
func WithCampaign(campaign string) Option {
	return func(s *settings) {
		s.cfg.Campaign = campaign
	}
}

// WithAlwaysSetMetadata controls whether metadata tags fall back to the
// template name when the campaign carries no provider tags. When false the
// metadata is left out in that case.
func WithAlwaysSetMetadata(always bool) Option {
	return func(s *settings) {
		s.cfg.AlwaysSetMetadata = always
	}
}

func WithoutKeyCheck() Option {
	return func(s *settings) {
		s.cfg.SkipKeyCheck = true
	}
}

func WithName(name string) Option {
	return func(s *settings) {
		s.cfg.Name = name
	}
}

func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(s *settings) {
		s.lookupEnv = lookup
	}
}

// NewConfig merges the options over the defaults, taking the key from the
// environment when none was given.
func NewConfig(opts ...Option) Config {
	s := settings{
		cfg: Config{
			Name:              DefaultName,
			NumRcptErrors:     DefaultNumRcptErrors,
			AlwaysSetMetadata: true,
		},
		lookupEnv: os.LookupEnv,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	if s.cfg.Key == "" {
		if key, ok := s.lookupEnv(KeyEnvVar); ok {
			s.cfg.Key = key
		}
	}

	return s.cfg
}
