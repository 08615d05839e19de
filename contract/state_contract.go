package contract

import "investment_contract/sdk"

// -----------------------------------------------------------------------------
// Contract Configuration State
// -----------------------------------------------------------------------------

// isInitialized returns true once Init stored a configuration.
func (c *callState) isInitialized() (bool, error) {
	ptr, err := c.get(sdk.TierInstance, configKey())
	if err != nil {
		return false, err
	}
	return ptr != nil && *ptr != "", nil
}

// loadConfig loads the configuration or fails with ErrNotInitialized.
func (c *callState) loadConfig() (*Config, error) {
	ptr, err := c.get(sdk.TierInstance, configKey())
	if err != nil {
		return nil, err
	}
	if ptr == nil || *ptr == "" {
		return nil, ErrNotInitialized
	}
	cfg := &Config{}
	if err := decode(*ptr, cfg); err != nil {
		return nil, ErrStorage.wrap(err)
	}
	return cfg, nil
}

// saveConfig stages the configuration.
func (c *callState) saveConfig(cfg *Config) error {
	s, err := encode(*cfg)
	if err != nil {
		return ErrStorage.wrap(err)
	}
	c.put(sdk.TierInstance, configKey(), s)
	return nil
}
