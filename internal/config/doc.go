// Package config loads and validates collector configuration from YAML.
//
// Values in the file may reference environment variables as ${VAR};
// they are expanded before parsing.
package config
