package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/timex"
)

// UnmarshalJSON decodes onto the current values, so keys missing from the
// document keep them. Durations are written as "15m" or as nanoseconds.
func (c *Config) UnmarshalJSON(b []byte) error {
	type plain Config
	aux := struct {
		*plain
		AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
		RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
		EmailLinkValidityDuration    *timex.Duration `json:"email_link_validity_duration"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	for dst, src := range map[*time.Duration]*timex.Duration{
		&c.AccessTokenValidityDuration:  aux.AccessTokenValidityDuration,
		&c.RefreshTokenValidityDuration: aux.RefreshTokenValidityDuration,
		&c.EmailLinkValidityDuration:    aux.EmailLinkValidityDuration,
	} {
		if src != nil {
			*dst = src.Duration
		}
	}
	return nil
}

func (c *Config) readFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}
