package eventlog

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service abstracts what the collector does with a received entry.
type Service interface {
	Record(ctx context.Context, entry Entry) error
}

// Server implements the EventLogService gRPC API.
type Server struct {
	// service handles decoded entries.
	service Service
}

var _ RecordServer = (*Server)(nil)

// NewServer wires the provided service into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// Record decodes the entry and passes it to the service.
func (s *Server) Record(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	entry, err := EntryFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err = s.service.Record(ctx, entry); err != nil {
		return nil, status.Error(codes.Internal, "unable to record entry")
	}

	return new(emptypb.Empty), nil
}
