package main

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/teslafields/sysinfo-reader/internal/registry"
)

// statsClient - subset of client.Client used by commands
type statsClient interface {
	Snapshot(ctx context.Context) (*structpb.Struct, error)
	Family(ctx context.Context, f registry.Family) (*structpb.Struct, error)
	Ping(ctx context.Context) error
}

func runCommand(ctx context.Context, c statsClient, cmd string, w io.Writer, multiline bool) error {
	switch cmd {
	case "ping":
		if err := c.Ping(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, "pong")
		return err
	case "snapshot":
		s, err := c.Snapshot(ctx)
		if err != nil {
			return err
		}
		return printStruct(w, s, multiline)
	}

	f, err := registry.ParseFamily(cmd)
	if err != nil {
		return fmt.Errorf("unknown command: %s", cmd)
	}

	s, err := c.Family(ctx, f)
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.Unavailable {
			return fmt.Errorf("%s: no statistics committed yet", f)
		}
		return err
	}

	return printStruct(w, s, multiline)
}

func printStruct(w io.Writer, s *structpb.Struct, multiline bool) error {
	out, err := protojson.MarshalOptions{Multiline: multiline, Indent: "  "}.Marshal(s)
	if err != nil {
		return fmt.Errorf("protojson.Marshal: %w", err)
	}

	_, err = fmt.Fprintln(w, string(out))
	return err
}
