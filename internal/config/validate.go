package config

import (
	"errors"
	"fmt"
	"strings"

	"precheck/internal/services/whisper"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if !whisper.IsValidModel(c.Analysis.Model) {
		return fmt.Errorf("analysis.model must be one of %s, got %q",
			strings.Join(whisper.ModelSizes(), ", "), c.Analysis.Model)
	}
	switch c.Analysis.NoReferencePolicy {
	case PolicyRandom, PolicyFixed:
	default:
		return fmt.Errorf("analysis.no_reference_policy must be %q or %q, got %q",
			PolicyRandom, PolicyFixed, c.Analysis.NoReferencePolicy)
	}
	if c.Analysis.NoReferenceScore < 0 || c.Analysis.NoReferenceScore > 100 {
		return errors.New("analysis.no_reference_score must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}
