// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, .env and config files). It
// provides type-safe access to application settings needed by different
// components while keeping configuration details separate from business logic.
//
// The resulting Config is built once at startup and passed by value or pointer
// to the components that need it; nothing mutates it afterwards.
package config
