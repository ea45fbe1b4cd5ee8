package boot

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/grpclog"

	"github.com/teslafields/sysinfo-reader/internal/api/gateway"
	v1 "github.com/teslafields/sysinfo-reader/internal/api/grpc/v1"
	"github.com/teslafields/sysinfo-reader/internal/config"
	"github.com/teslafields/sysinfo-reader/internal/metrics"
	"github.com/teslafields/sysinfo-reader/internal/pkg/logwriter"
	"github.com/teslafields/sysinfo-reader/internal/pkg/utils"
	"github.com/teslafields/sysinfo-reader/internal/registry"
	"github.com/teslafields/sysinfo-reader/internal/reporter"
	"github.com/teslafields/sysinfo-reader/internal/sampler"
	"github.com/teslafields/sysinfo-reader/internal/snapshot"
)

var (
	configPath  = flag.String("config", "config/config.yaml", "Path to YAML config file")
	grpcAddr    = flag.String("grpc-addr", "", "host:port of the grpc server, overrides config")
	gatewayAddr = flag.String("gateway-addr", "", "host:port of the grpc-gateway server, overrides config")
)

// Run .
// nolint: revive
func Run() error {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	if err := applyOverrides(cfg, *grpcAddr, *gatewayAddr); err != nil {
		return fmt.Errorf("applyOverrides: %w", err)
	}

	grpclog.SetLoggerV2(logwriter.GRPCLogger("GRPC", cfg.GRPC.Verbose))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === SAMPLING SETUP ===

	collector := metrics.NewCollector()

	devs, err := collector.Devices(ctx)
	if err != nil {
		log.Printf("[ERROR] collector.Devices: %s\n", err)
	}

	host, err := collector.HostInfo(ctx)
	if err != nil {
		log.Printf("[ERROR] collector.HostInfo: %s\n", err)
	}

	reg := registry.Build(registry.Config{
		Capacity: cfg.Sampler.Capacity,
		Resets:   cfg.Sampler.Reset,
	}, devs)

	log.Printf("[INFO] registered disks %v, interfaces %v\n", reg.DiskNames(), reg.NetworkNames())

	builder := snapshot.New(snapshot.Config{
		Host: host,
	})

	smp := sampler.New(sampler.Config{
		Provider:    collector,
		Registry:    reg,
		Builder:     builder,
		Interval:    utils.Const(cfg.Sampler.Interval.Duration),
		Poll:        utils.Const(cfg.Sampler.Poll.Duration),
		ReadTimeout: utils.Const(cfg.Sampler.ReadTimeout.Duration),
	})

	rep := reporter.New(reporter.Config{
		Snapshots: builder,
		Interval:  cfg.Reporter.Interval.Duration,
	})

	impl := v1.New(v1.Config{
		Builder: builder,
	})

	// === GRPC SERVER SETUP ===

	grpcEndpoint := cfg.GRPCEndpoint()

	grpcServer := grpc.NewServer()
	v1.RegisterStatsServer(grpcServer, impl)

	lis, err := net.Listen("tcp", grpcEndpoint)
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}

	// === GRPC-GATEWAY (HTTP) SERVER SETUP ===

	gwEndpoint := cfg.GatewayEndpoint()

	conn, err := grpc.NewClient(grpcEndpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("grpc.NewClient: %w", err)
	}
	defer func() { _ = conn.Close() }()

	gwMux, err := gateway.New(gateway.Config{
		Client: v1.NewStatsClient(conn),
	})
	if err != nil {
		return fmt.Errorf("gateway.New: %w", err)
	}

	httpServer := &http.Server{
		Addr:              gwEndpoint,
		Handler:           gwMux,
		ReadTimeout:       cfg.Gateway.ReadTimeout.Duration,
		ReadHeaderTimeout: cfg.Gateway.ReadTimeout.Duration,
		WriteTimeout:      cfg.Gateway.WriteTimeout.Duration,
	}

	gwLis, err := net.Listen("tcp", gwEndpoint)
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}

	// === RUN ===

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		smp.Run(gctx)
		return nil
	})

	g.Go(func() error {
		rep.Run(gctx)
		return nil
	})

	g.Go(func() error {
		log.Printf("[GRPC] grpc server is set up on %s\n", grpcEndpoint)

		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpcServer.Serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Printf("[GRPC] grpc-gateway server is set up on %s\n", gwEndpoint)

		if err := httpServer.Serve(gwLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("httpServer.Serve: %w", err)
		}
		return nil
	})

	// === GRACEFUL SHUTDOWN ===

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			log.Printf("[INFO] received %s\n", sig)
		case <-gctx.Done():
		}

		// stops the sampler and the reporter
		cancel()

		log.Println("[GRPC] shutting down grpc server...")
		grpcServer.GracefulStop()

		log.Println("[GRPC] shutting down grpc-gateway server...")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Gateway.ShutdownTimeout.Duration)
		defer cancelShutdown()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("httpServer.Shutdown: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Println("[GRPC] shutdown success")

	return nil
}

// applyOverrides replaces configured endpoints with non-empty host:port flags
func applyOverrides(cfg *config.Config, grpcAddr, gatewayAddr string) error {
	if grpcAddr != "" {
		host, port, err := net.SplitHostPort(grpcAddr)
		if err != nil {
			return fmt.Errorf("net.SplitHostPort: %w", err)
		}
		cfg.GRPC.Host, cfg.GRPC.Port = host, port
	}

	if gatewayAddr != "" {
		host, port, err := net.SplitHostPort(gatewayAddr)
		if err != nil {
			return fmt.Errorf("net.SplitHostPort: %w", err)
		}
		cfg.Gateway.Host, cfg.Gateway.Port = host, port
	}

	return nil
}
