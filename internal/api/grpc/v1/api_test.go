package v1

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/teslafields/sysinfo-reader/internal/metrics"
	"github.com/teslafields/sysinfo-reader/internal/pkg/utils"
	"github.com/teslafields/sysinfo-reader/internal/registry"
	"github.com/teslafields/sysinfo-reader/internal/snapshot"
)

// startServer serves impl over an in-memory listener and returns a client for it
func startServer(t *testing.T, impl StatsServer) *StatsClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)

	srv := grpc.NewServer()
	RegisterStatsServer(srv, impl)

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewStatsClient(conn)
}

func newFixture(t *testing.T) (*registry.Registry, *snapshot.Builder) {
	t.Helper()

	reg := registry.Build(registry.Config{Capacity: 2}, metrics.Devices{
		Disks:      []string{"/dev/sda1"},
		Interfaces: []string{"eth0"},
	})

	b := snapshot.New(snapshot.Config{
		Host:    metrics.HostInfo{Hostname: "box", PhysicalCores: 4},
		CurTime: utils.Const(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	})

	return reg, b
}

func pushAll(reg *registry.Registry, v uint64) {
	reg.Timestamp.Push(int64(v)) // nolint: gosec
	reg.CPU.Usage.Push(float64(v))
	reg.CPU.Freq.Push(v)
	reg.Memory.Free.Push(v)
	reg.Memory.Used.Push(v)
	reg.Memory.Available.Push(v)
	reg.Memory.Buffers.Push(v)

	d, _ := reg.Disk("/dev/sda1")
	d.Push(v)

	n, _ := reg.Network("eth0")
	n.Rx.Push(v)
	n.Tx.Push(v)
}

func field(t *testing.T, s *structpb.Struct, path ...string) *structpb.Value {
	t.Helper()

	var v *structpb.Value
	for _, key := range path {
		require.NotNil(t, s, "no struct at %q", key)

		var ok bool
		v, ok = s.GetFields()[key]
		require.True(t, ok, "missing field %q", key)

		s = v.GetStructValue()
	}

	return v
}

func TestProjections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("error: unavailable before commit", func(t *testing.T) {
		t.Parallel()

		reg, b := newFixture(t)
		client := startServer(t, New(Config{Builder: b}))

		pushAll(reg, 1)
		b.Rebuild(ctx, reg)

		for _, method := range []string{MethodCPU, MethodMemory, MethodDisks, MethodNetworks} {
			_, err := client.Call(ctx, method)
			require.Error(t, err, method)
			assert.Equal(t, codes.Unavailable, status.Code(err), method)
		}
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		reg, b := newFixture(t)
		client := startServer(t, New(Config{Builder: b}))

		pushAll(reg, 1)
		pushAll(reg, 3)
		b.Rebuild(ctx, reg)

		cpu, err := client.Call(ctx, MethodCPU)
		require.NoError(t, err)
		assert.Equal(t, 3.0, field(t, cpu, registry.CPUUsage, "max").GetNumberValue())
		assert.Equal(t, 1.0, field(t, cpu, registry.CPUUsage, "min").GetNumberValue())
		assert.Equal(t, 2.0, field(t, cpu, registry.CPUUsage, "avg").GetNumberValue())
		assert.Equal(t, 3.0, field(t, cpu, registry.CPUUsage, "last").GetNumberValue())

		mem, err := client.Call(ctx, MethodMemory)
		require.NoError(t, err)
		assert.True(t, field(t, mem, registry.MemBuffers, "committed").GetBoolValue())

		disks, err := client.Call(ctx, MethodDisks)
		require.NoError(t, err)
		assert.Equal(t, 2.0, field(t, disks, "/dev/sda1", "avg").GetNumberValue())

		nets, err := client.Call(ctx, MethodNetworks)
		require.NoError(t, err)
		assert.Equal(t, 3.0, field(t, nets, "eth0", "tx_bytes", "max").GetNumberValue())
	})
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	reg, b := newFixture(t)
	client := startServer(t, New(Config{Builder: b}))

	pushAll(reg, 5)
	b.Rebuild(ctx, reg)

	snap, err := client.Call(ctx, MethodSnapshot)
	require.NoError(t, err)

	assert.Equal(t, 1.0, field(t, snap, "generation").GetNumberValue())
	assert.Equal(t, "2025-01-01T00:00:00Z", field(t, snap, "updated_at").GetStringValue())
	assert.Equal(t, "box", field(t, snap, "host", "hostname").GetStringValue())
	assert.Equal(t, 4.0, field(t, snap, "host", "physical_cores").GetNumberValue())

	usage := field(t, snap, "cpu", registry.CPUUsage).GetStructValue()
	assert.False(t, field(t, usage, "committed").GetBoolValue())
	assert.True(t, field(t, usage, "sampled").GetBoolValue())
	assert.Equal(t, 5.0, field(t, usage, "last").GetNumberValue())
	assert.NotContains(t, usage.GetFields(), "max")
	assert.NotContains(t, usage.GetFields(), "avg")
}

func TestPing(t *testing.T) {
	t.Parallel()

	_, b := newFixture(t)
	client := startServer(t, New(Config{Builder: b}))

	require.NoError(t, client.Ping(context.Background()))
}
