// Package config handles loading and validating application configuration
// from environment variables and optional config files. Environment
// variables use the TASKDESK_ prefix and take precedence over file values.
package config
