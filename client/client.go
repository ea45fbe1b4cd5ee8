package client

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	v1 "github.com/teslafields/sysinfo-reader/internal/api/grpc/v1"
	"github.com/teslafields/sysinfo-reader/internal/registry"
)

// Client is the systats gRPC client.
type Client struct {
	conn    *grpc.ClientConn
	stats   *v1.StatsClient
	timeout time.Duration
}

var familyMethods = map[registry.Family]string{
	registry.FamilyCPU:     v1.MethodCPU,
	registry.FamilyMemory:  v1.MethodMemory,
	registry.FamilyDisk:    v1.MethodDisks,
	registry.FamilyNetwork: v1.MethodNetworks,
}

// New creates a new Client. addr is the gRPC address of the systats server (e.g. "localhost:8000").
func New(addr string, opts ...Option) (*Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, o.dialOpts...)

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("grpc.NewClient: %w", err)
	}

	return &Client{
		conn:    conn,
		stats:   v1.NewStatsClient(conn),
		timeout: o.timeout,
	}, nil
}

// Snapshot returns all published statistics.
func (c *Client) Snapshot(ctx context.Context) (*structpb.Struct, error) {
	return c.call(ctx, v1.MethodSnapshot)
}

// Family returns statistics of one metric family. Returns grpc.Unavailable before their first commit.
func (c *Client) Family(ctx context.Context, f registry.Family) (*structpb.Struct, error) {
	method, ok := familyMethods[f]
	if !ok {
		return nil, fmt.Errorf("unknown family: %s", f)
	}

	return c.call(ctx, method)
}

// CPU returns cpu statistics.
func (c *Client) CPU(ctx context.Context) (*structpb.Struct, error) {
	return c.Family(ctx, registry.FamilyCPU)
}

// Memory returns memory statistics.
func (c *Client) Memory(ctx context.Context) (*structpb.Struct, error) {
	return c.Family(ctx, registry.FamilyMemory)
}

// Disks returns per-disk statistics.
func (c *Client) Disks(ctx context.Context) (*structpb.Struct, error) {
	return c.Family(ctx, registry.FamilyDisk)
}

// Networks returns per-interface statistics.
func (c *Client) Networks(ctx context.Context) (*structpb.Struct, error) {
	return c.Family(ctx, registry.FamilyNetwork)
}

// Ping checks that the server is alive.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.stats.Ping(ctx)
}

// Close releases resources.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) call(ctx context.Context, method string) (*structpb.Struct, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.stats.Call(ctx, method)
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, c.timeout)
}
