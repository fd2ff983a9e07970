// Package config loads the fiber monitor server configuration from the
// `server:` section of config.yaml and watches it for changes.
//
// Config fields:
//   - GRPCPort               port for the gRPC assessment service (default 50051)
//   - HTTPPort               port for REST, WebSocket and /metrics (default 8080)
//   - LogLevel               debug | info | warn | error (default info)
//   - Auth.Mode              "apikey" or "none"
//   - Auth.KeyEnv            environment variable holding the expected API key
//   - Auth.Header            gRPC metadata/HTTP header name (default "x-api-key")
//   - CORS.AllowedOrigins    browser origins allowed to call the API (default ["*"])
//   - Session.TTL            idle lifetime of a form session (default 30m)
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, onChange) watches the file's directory with fsnotify,
// reloads once the file has been quiet for a moment, and keeps the previous
// config when the new file does not validate.
package config
