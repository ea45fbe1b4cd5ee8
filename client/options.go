package client

import (
	"time"

	"google.golang.org/grpc"
)

// Option configures the Client.
type Option func(*options)

type options struct {
	timeout  time.Duration
	dialOpts []grpc.DialOption
}

// WithTimeout sets the default timeout for RPC calls.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithDialOptions appends grpc dial options, applied after the default insecure credentials.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *options) {
		o.dialOpts = append(o.dialOpts, opts...)
	}
}
