package analyticsconfig

import "fmt"

// Validate checks profile invariants before the config is accepted
func Validate(cfg *Config) error {
	if cfg.Meta.ProfileID == "" {
		return fmt.Errorf("meta.profile_id is required")
	}

	if cfg.Leaks.Threshold < 0 {
		return fmt.Errorf("leaks.threshold must be >= 0, got %v", cfg.Leaks.Threshold)
	}

	b := cfg.Leaks.Bands
	if b.Medium <= cfg.Leaks.Threshold {
		return fmt.Errorf("leaks.bands.medium (%v) must exceed threshold (%v)", b.Medium, cfg.Leaks.Threshold)
	}
	if b.High <= b.Medium {
		return fmt.Errorf("leaks.bands.high (%v) must exceed medium (%v)", b.High, b.Medium)
	}
	if b.Critical <= b.High {
		return fmt.Errorf("leaks.bands.critical (%v) must exceed high (%v)", b.Critical, b.High)
	}

	if cfg.Compute.SectionTimeoutMS <= 0 {
		return fmt.Errorf("compute.section_timeout_ms must be > 0")
	}
	if cfg.Compute.CacheTTLSec <= 0 {
		return fmt.Errorf("compute.cache_ttl_sec must be > 0")
	}
	if cfg.Compute.Epsilon <= 0 {
		return fmt.Errorf("compute.epsilon must be > 0")
	}

	return nil
}
