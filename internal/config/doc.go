// Package config resolves runtime settings for the CLI. Values come from
// command-line flags, then SYNAPSE_REG_* environment variables, then the
// built-in defaults (the homeserver path defaults to /data/homeserver.yaml).
package config
