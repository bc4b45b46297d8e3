package ovh

import (
	"errors"
	"strings"
)

// Config holds the settings needed to sign requests against the OVHcloud API.
type Config struct {
	Endpoint          string `json:"endpoint"`
	ApplicationKey    string `json:"application_key"`
	ApplicationSecret string `json:"application_secret"`
	ConsumerKey       string `json:"consumer_key"`
}

// Normalized returns a copy of the config with trimmed whitespace.
func (c Config) Normalized() Config {
	out := c
	out.Endpoint = strings.TrimRight(strings.TrimSpace(out.Endpoint), "/")
	out.ApplicationKey = strings.TrimSpace(out.ApplicationKey)
	out.ApplicationSecret = strings.TrimSpace(out.ApplicationSecret)
	out.ConsumerKey = strings.TrimSpace(out.ConsumerKey)
	return out
}

// Validate returns an error if the config is invalid.
func (c Config) Validate() error {
	c = c.Normalized()
	if c.Endpoint == "" {
		return errors.New("OVH endpoint is required")
	}
	if c.ApplicationKey == "" {
		return errors.New("OVH application key is required")
	}
	if c.ApplicationSecret == "" {
		return errors.New("OVH application secret is required")
	}
	if c.ConsumerKey == "" {
		return errors.New("OVH consumer key is required")
	}
	return nil
}
