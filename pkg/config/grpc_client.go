package config

import (
	"fmt"
	"strings"
	"time"
)

// GrpcClientConfig describes an outbound gRPC target. Service names the health
// service to query; empty means the whole server.
type GrpcClientConfig struct {
	Addr    string        `koanf:"addr"`
	Service string        `koanf:"service"`
	Timeout time.Duration `koanf:"timeout"`
}

func (c *GrpcClientConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- gRPC Client ---\n")
	b.WriteString(fmt.Sprintf("  addr: %s\n", c.Addr))
	if c.Service != "" {
		b.WriteString(fmt.Sprintf("  service: %s\n", c.Service))
	}
	b.WriteString(fmt.Sprintf("  timeout: %s\n", c.Timeout))
	return b.String()
}

func (c *GrpcClientConfig) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("gRPC client address is not configured")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid gRPC client timeout: %v", c.Timeout)
	}
	return nil
}
