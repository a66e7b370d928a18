package analyticsconfig

import "time"

// Config is the full analytics profile. Thresholds and heuristic
// vocabularies are configuration, not code, so a profile change never
// requires a rebuild, but every computed summary is tied to the profile
// hash it was computed with.
type Config struct {
	Meta     Meta     `yaml:"meta" json:"meta"`
	Leaks    Leaks    `yaml:"leaks" json:"leaks"`
	Behavior Behavior `yaml:"behavior" json:"behavior"`
	Compute  Compute  `yaml:"compute" json:"compute"`
}

// Meta identifies the profile
type Meta struct {
	ProfileID string `yaml:"profile_id" json:"profile_id"`
	Version   string `yaml:"version" json:"version"`
}

// Leaks configures the leak detector. A tag group is flagged when its
// impact score is negative and its magnitude exceeds Threshold; severity
// is assigned by the band lower bounds over |impact score|.
type Leaks struct {
	Threshold float64 `yaml:"threshold" json:"threshold"`
	Bands     Bands   `yaml:"bands" json:"bands"`
}

// Bands holds severity lower bounds in account currency.
// Threshold <= |impact| < Medium is low, and so on upward.
type Bands struct {
	Medium   float64 `yaml:"medium" json:"medium"`
	High     float64 `yaml:"high" json:"high"`
	Critical float64 `yaml:"critical" json:"critical"`
}

// Behavior names the canonical emotion vocabularies behind the three
// behavioral cost figures. Each cost is the summed impact score of its
// tag group; tags absent from the data contribute zero.
type Behavior struct {
	HesitationTags []string `yaml:"hesitation_tags" json:"hesitation_tags"`
	FOMOTags       []string `yaml:"fomo_tags" json:"fomo_tags"`
	RevengeTags    []string `yaml:"revenge_tags" json:"revenge_tags"`
}

// Compute holds engine execution parameters
type Compute struct {
	SectionTimeoutMS int     `yaml:"section_timeout_ms" json:"section_timeout_ms"`
	CacheTTLSec      int     `yaml:"cache_ttl_sec" json:"cache_ttl_sec"`
	Epsilon          float64 `yaml:"epsilon" json:"epsilon"` // peak guard for drawdown percentages
}

// SectionTimeout returns the per-section deadline as a duration
func (c Compute) SectionTimeout() time.Duration {
	return time.Duration(c.SectionTimeoutMS) * time.Millisecond
}

// CacheTTL returns the summary memoization TTL as a duration
func (c Compute) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// Default returns the built-in profile used when no YAML file is supplied
func Default() *Config {
	return &Config{
		Meta: Meta{
			ProfileID: "default",
			Version:   "1",
		},
		Leaks: Leaks{
			Threshold: 100,
			Bands: Bands{
				Medium:   500,
				High:     2000,
				Critical: 10000,
			},
		},
		Behavior: Behavior{
			HesitationTags: []string{"hesitation", "doubt", "second-guessing"},
			FOMOTags:       []string{"fomo", "chasing", "impulsive"},
			RevengeTags:    []string{"revenge", "tilt", "frustrated"},
		},
		Compute: Compute{
			SectionTimeoutMS: 5000,
			CacheTTLSec:      600,
			Epsilon:          1e-9,
		},
	}
}
