package v1

import (
	"context"
	stderrors "errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/teslafields/sysinfo-reader/internal/pkg/errors"
)

// Snapshot returns all published statistics
func (i *Implementation) Snapshot(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(snapshotValue(i.builder.Read()))
}

// CPU returns cpu statistics
func (i *Implementation) CPU(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	cpu, err := i.builder.CPU()
	if err != nil {
		return nil, toStatus(err)
	}

	return toStruct(cpuValue(cpu))
}

// Memory returns memory statistics
func (i *Implementation) Memory(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	mem, err := i.builder.Memory()
	if err != nil {
		return nil, toStatus(err)
	}

	return toStruct(memoryValue(mem))
}

// Disks returns per-disk statistics
func (i *Implementation) Disks(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	disks, err := i.builder.Disks()
	if err != nil {
		return nil, toStatus(err)
	}

	return toStruct(disksValue(disks))
}

// Networks returns per-interface statistics
func (i *Implementation) Networks(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	nets, err := i.builder.Networks()
	if err != nil {
		return nil, toStatus(err)
	}

	return toStruct(networksValue(nets))
}

// Ping checks liveness
func (i *Implementation) Ping(_ context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}

func toStruct(v map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("structpb.NewStruct: %s", err))
	}

	return s, nil
}

func toStatus(err error) error {
	if stderrors.Is(err, errors.ErrUnavailable) {
		return status.Error(codes.Unavailable, err.Error())
	}

	return status.Error(codes.Internal, err.Error())
}
