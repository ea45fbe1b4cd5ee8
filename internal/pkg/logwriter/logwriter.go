package logwriter

import (
	"bufio"
	"io"
	"log"

	"google.golang.org/grpc/grpclog"
)

// LinePrefix returns an io.Writer that reads line-by-line from the writer and logs
// each line with the given prefix via log.Printf. Used to fold output of
// third-party loggers into the process log.
func LinePrefix(prefix string) io.Writer {
	pr, pw := io.Pipe()

	go func() {
		defer func() { _ = pr.Close() }()

		s := bufio.NewScanner(pr)
		for s.Scan() {
			log.Printf("[%s] %s", prefix, s.Text())
		}
	}()

	return pw
}

// GRPCLogger builds a grpclog.LoggerV2 writing warnings and errors under prefix.
// Info lines are dropped unless verbose is set.
func GRPCLogger(prefix string, verbose bool) grpclog.LoggerV2 {
	w := LinePrefix(prefix)

	info := io.Discard
	if verbose {
		info = w
	}

	return grpclog.NewLoggerV2(info, w, w)
}
