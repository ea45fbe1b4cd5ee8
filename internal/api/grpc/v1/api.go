package v1

import (
	"github.com/teslafields/sysinfo-reader/internal/snapshot"
)

// Implementation - grpc service implementation
type Implementation struct {
	builder *snapshot.Builder
}

// Config - API implementation config
type Config struct {
	Builder *snapshot.Builder
}

// New creates new API implementation
func New(cfg Config) *Implementation {
	return &Implementation{
		builder: cfg.Builder,
	}
}

var _ StatsServer = (*Implementation)(nil)
