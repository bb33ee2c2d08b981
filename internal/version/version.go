package version

// Version is overridden at build time with -ldflags "-X contigkit/internal/version.Version=...".
var Version = "dev"
