package resend

// Config represents the configuration for the Resend API client.
type Config struct {
	// APIKey authenticates against the Resend API.
	APIKey string

	// From is the verified sender address, e.g.
	// "FitCity Culemborg <noreply@fitcityculemborg.nl>".
	From string

	// BaseURL is the Resend API base URL.
	BaseURL string
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrInvalidConfig
	}
	if c.From == "" {
		return ErrInvalidConfig
	}
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	return nil
}
