// Package config manages user-level settings stored at ~/.sketchpack/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the default build-directory inclusion policy used by the archive command.
package config
