package flight

import (
	"fmt"
	"log"

	"geo-accessor/pkg/accessor"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc"
)

// ServerOptions configures the Flight service
type ServerOptions struct {
	SpillRows int64
	DataDir   string
}

func NewFlightServer(a *accessor.Accessor, opts ServerOptions, grpcOpts ...grpc.ServerOption) flight.Server {
	server := flight.NewServerWithMiddleware(nil, grpcOpts...)
	server.RegisterFlightService(NewGeometryFlightServer(a, opts.SpillRows, opts.DataDir))
	return server
}

func StartFlightServer(a *accessor.Accessor, port int, opts ServerOptions, grpcOpts ...grpc.ServerOption) error {
	addr := fmt.Sprintf(":%d", port)
	server := NewFlightServer(a, opts, grpcOpts...)
	log.Printf("Starting geometry Flight server on %s...\n", addr)
	if err := server.Init(addr); err != nil {
		return err
	}
	return server.Serve()
}
