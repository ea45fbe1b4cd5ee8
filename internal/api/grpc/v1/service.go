package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName - fully qualified gRPC service name
const ServiceName = "systats.v1.Stats"

// Full method names
const (
	MethodSnapshot = "/" + ServiceName + "/Snapshot"
	MethodCPU      = "/" + ServiceName + "/CPU"
	MethodMemory   = "/" + ServiceName + "/Memory"
	MethodDisks    = "/" + ServiceName + "/Disks"
	MethodNetworks = "/" + ServiceName + "/Networks"
	MethodPing     = "/" + ServiceName + "/Ping"
)

// StatsServer - server API of the stats service
type StatsServer interface {
	// Snapshot returns all published statistics
	Snapshot(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// CPU returns cpu statistics, Unavailable before their first commit
	CPU(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// Memory returns memory statistics, Unavailable before their first commit
	Memory(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// Disks returns per-disk statistics, Unavailable before their first commit
	Disks(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// Networks returns per-interface statistics, Unavailable before their first commit
	Networks(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// Ping checks liveness
	Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

// RegisterStatsServer registers srv on s
func RegisterStatsServer(s grpc.ServiceRegistrar, srv StatsServer) {
	s.RegisterService(&statsServiceDesc, srv)
}

var statsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StatsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Snapshot", Handler: unaryHandler(MethodSnapshot, StatsServer.Snapshot)},
		{MethodName: "CPU", Handler: unaryHandler(MethodCPU, StatsServer.CPU)},
		{MethodName: "Memory", Handler: unaryHandler(MethodMemory, StatsServer.Memory)},
		{MethodName: "Disks", Handler: unaryHandler(MethodDisks, StatsServer.Disks)},
		{MethodName: "Networks", Handler: unaryHandler(MethodNetworks, StatsServer.Networks)},
		{MethodName: "Ping", Handler: unaryHandler(MethodPing, StatsServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "systats/v1/stats.proto",
}

// unaryHandler builds a method handler for a call taking google.protobuf.Empty
func unaryHandler[Resp any](
	fullMethod string,
	call func(StatsServer, context.Context, *emptypb.Empty) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(emptypb.Empty)
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return call(srv.(StatsServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(StatsServer), ctx, req.(*emptypb.Empty))
		}

		return interceptor(ctx, in, info, handler)
	}
}

// StatsClient - client API of the stats service
type StatsClient struct {
	cc grpc.ClientConnInterface
}

// NewStatsClient returns client over cc
func NewStatsClient(cc grpc.ClientConnInterface) *StatsClient {
	return &StatsClient{cc: cc}
}

// Call invokes a Struct-returning method by its full name
func (c *StatsClient) Call(ctx context.Context, method string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// Ping invokes Ping
func (c *StatsClient) Ping(ctx context.Context, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, MethodPing, &emptypb.Empty{}, &emptypb.Empty{}, opts...)
}
