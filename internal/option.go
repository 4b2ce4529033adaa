package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	mcpStdio bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithStdioMCP switches the process to MCP-over-stdio mode instead of the
// HTTP server.
func WithStdioMCP(enabled bool) Option {
	return func(a *application) {
		a.mcpStdio = enabled
	}
}
