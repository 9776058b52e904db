package config

// Version is the service version, overridable at build time via
// -ldflags "-X github.com/brokeragehq/backoffice/internal/config.Version=...".
var Version = "dev"
