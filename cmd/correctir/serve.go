package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FocuswithJustin/correctir/internal/api"
)

// ServeCmd starts the correction API server.
type ServeCmd struct {
	SourceFlags `embed:""`

	Port           int           `help:"HTTP server port" default:"8080"`
	MaxBody        int64         `help:"Largest accepted request body in bytes" default:"1048576"`
	CacheTTL       time.Duration `name:"cache-ttl" help:"How long results stay cached (0 disables caching)" default:"10m"`
	CacheEntries   int           `help:"Result cache capacity (0 = unbounded)" default:"1024"`
	RateLimit      int           `help:"Requests per minute per client (0 = disabled)" default:"0"`
	RateBurst      int           `help:"Rate limit burst size" default:"10"`
	TrustedProxy   []string      `name:"trusted-proxy" help:"Proxy IP or CIDR whose X-Forwarded-For is trusted (repeatable)" sep:","`
	APIKey         string        `name:"api-key" help:"Require this API key" env:"CORRECTIR_API_KEY"`
	TLSCert        string        `name:"tls-cert" help:"TLS certificate file" type:"path"`
	TLSKey         string        `name:"tls-key" help:"TLS private key file" type:"path"`
	AllowedOrigins []string      `help:"Allowed websocket origins (empty = allow all)" sep:","`
}

// config returns the server configuration given by the flags.
func (c *ServeCmd) config() api.Config {
	return api.Config{
		Port:              c.Port,
		Version:           version,
		MaxBodyBytes:      c.MaxBody,
		CacheTTL:          c.CacheTTL,
		CacheEntries:      c.CacheEntries,
		RateLimitRequests: c.RateLimit,
		RateLimitBurst:    c.RateBurst,
		TrustedProxies:    c.TrustedProxy,
		Auth:              api.AuthConfig{Enabled: c.APIKey != "", APIKey: c.APIKey},
		TLS: api.TLSConfig{
			Enabled:  c.TLSCert != "" || c.TLSKey != "",
			CertFile: c.TLSCert,
			KeyFile:  c.TLSKey,
		},
		AllowedOrigins: c.AllowedOrigins,
	}
}

func (c *ServeCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	corrector, release, err := c.corrector(ctx)
	if err != nil {
		return err
	}
	defer release()

	srv, err := api.NewServer(c.config(), corrector)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}
