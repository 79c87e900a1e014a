package config

import (
	"fmt"
	"strconv"
	"time"
)

// Keys lists the settings reachable through GetValue and SetValue, in display order.
func Keys() []string {
	return []string{
		"root_dir",
		"http_timeout",
		"max_concurrent",
		"continue_on_error",
		"log_level",
		"log_format",
		"platform.os",
		"platform.arch",
		"jdk_api_url",
		"asset_base_url",
	}
}

// SetValue sets a configuration value by key. The result is not validated.
func (c *Config) SetValue(key, value string) error {
	s := &c.Settings
	switch key {
	case "root_dir":
		s.RootDir = value
	case "http_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %s", key, value)
		}
		s.HTTPTimeout = d
	case "max_concurrent":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		s.MaxConcurrent = n
	case "continue_on_error":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %s", key, value)
		}
		s.ContinueOnError = b
	case "log_level":
		s.LogLevel = value
	case "log_format":
		s.LogFormat = value
	case "platform.os":
		s.Platform.OS = value
	case "platform.arch":
		s.Platform.Arch = value
	case "jdk_api_url":
		s.JDKAPIURL = value
	case "asset_base_url":
		s.AssetBaseURL = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// GetValue returns a configuration value as a string.
func (c *Config) GetValue(key string) (string, error) {
	s := c.Settings
	switch key {
	case "root_dir":
		return s.RootDir, nil
	case "http_timeout":
		return s.HTTPTimeout.String(), nil
	case "max_concurrent":
		return strconv.Itoa(s.MaxConcurrent), nil
	case "continue_on_error":
		return strconv.FormatBool(s.ContinueOnError), nil
	case "log_level":
		return s.LogLevel, nil
	case "log_format":
		return s.LogFormat, nil
	case "platform.os":
		return s.Platform.OS, nil
	case "platform.arch":
		return s.Platform.Arch, nil
	case "jdk_api_url":
		return s.JDKAPIURL, nil
	case "asset_base_url":
		return s.AssetBaseURL, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// ToMap returns every setting keyed as in Keys.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string, len(Keys()))
	for _, key := range Keys() {
		value, _ := c.GetValue(key)
		result[key] = value
	}
	return result
}
