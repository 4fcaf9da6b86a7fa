// Package config loads livescribe configuration from config.yml files,
// .env files, and environment variables using viper and godotenv.
//
// Packages define their own Config structs (segmenter.Config, whisper.Config,
// ...) and compose them into session.Config; this package only resolves and
// unmarshals the files.
package config
