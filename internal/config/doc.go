// Package config manages user-level settings stored at ~/.devkit/config.yaml
// and DEVKIT_* environment variables. Settings are read once per invocation
// into an immutable Settings value that the CLI threads through the pipeline.
package config
