// Package config reads the runtime configuration from the environment and builds the configured
// stream engine with its database connections.
//
// This package is part of the shell (infrastructure) layer.
package config
