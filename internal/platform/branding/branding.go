// Package branding holds user-facing product names.
package branding

// AppName is the product name shown to MCP clients and in logs.
const AppName = "DealMate Context"

// ServerName identifies the context server in the MCP implementation info.
const ServerName = AppName + " MCP"

// Version is the release version, overridden at build time with
// -ldflags "-X .../branding.Version=...".
var Version = "0.1.0"
