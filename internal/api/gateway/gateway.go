package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"

	v1 "github.com/teslafields/sysinfo-reader/internal/api/grpc/v1"
)

// Config - gateway config
type Config struct {
	Client *v1.StatsClient
	Opts   []runtime.ServeMuxOption
}

type route struct {
	path   string
	method string
}

var routes = []route{
	{path: "/v1/snapshot", method: v1.MethodSnapshot},
	{path: "/v1/cpu", method: v1.MethodCPU},
	{path: "/v1/memory", method: v1.MethodMemory},
	{path: "/v1/disks", method: v1.MethodDisks},
	{path: "/v1/networks", method: v1.MethodNetworks},
}

// New returns a mux proxying HTTP GET requests to the stats service
func New(cfg Config) (*runtime.ServeMux, error) {
	mux := runtime.NewServeMux(cfg.Opts...)
	client := cfg.Client

	for _, r := range routes {
		call := func(ctx context.Context, opts ...grpc.CallOption) (proto.Message, error) {
			return client.Call(ctx, r.method, opts...)
		}

		if err := mux.HandlePath(http.MethodGet, r.path, handler(mux, r.method, r.path, call)); err != nil {
			return nil, fmt.Errorf("mux.HandlePath %s: %w", r.path, err)
		}
	}

	ping := func(ctx context.Context, opts ...grpc.CallOption) (proto.Message, error) {
		if err := client.Ping(ctx, opts...); err != nil {
			return nil, err
		}
		return &emptypb.Empty{}, nil
	}

	if err := mux.HandlePath(http.MethodGet, "/v1/ping", handler(mux, v1.MethodPing, "/v1/ping", ping)); err != nil {
		return nil, fmt.Errorf("mux.HandlePath /v1/ping: %w", err)
	}

	return mux, nil
}

type callFunc func(ctx context.Context, opts ...grpc.CallOption) (proto.Message, error)

// handler forwards one request the way generated gateway handlers do
func handler(mux *runtime.ServeMux, method, path string, call callFunc) runtime.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request, _ map[string]string) {
		ctx, cancel := context.WithCancel(req.Context())
		defer cancel()

		_, outbound := runtime.MarshalerForRequest(mux, req)

		annotated, err := runtime.AnnotateContext(ctx, mux, req, method, runtime.WithHTTPPathPattern(path))
		if err != nil {
			runtime.HTTPError(ctx, mux, outbound, w, req, err)
			return
		}

		var md runtime.ServerMetadata
		resp, err := call(annotated, grpc.Header(&md.HeaderMD), grpc.Trailer(&md.TrailerMD))
		annotated = runtime.NewServerMetadataContext(annotated, md)
		if err != nil {
			runtime.HTTPError(annotated, mux, outbound, w, req, err)
			return
		}

		runtime.ForwardResponseMessage(annotated, mux, outbound, w, req, resp)
	}
}
