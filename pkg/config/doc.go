// Package config loads typed configuration structs from environment
// variables using caarlos0/env struct tags, with optional .env file support
// via godotenv.
//
// Each configuration type is parsed once per process and cached, so services
// can call Load from wherever they are constructed without re-reading the
// environment.
package config
