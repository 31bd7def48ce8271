package eventlog

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "office.eventlog.v1.EventLogService"

	recordMethodName = "Record"
	recordFullMethod = "/" + ServiceName + "/" + recordMethodName
)

// RecordServer is the server API for EventLogService.
type RecordServer interface {
	Record(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
}

// serviceDesc describes EventLogService for grpc.Server.RegisterService.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RecordServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: recordMethodName,
			Handler:    recordHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "office/eventlog/v1/eventlog.proto",
}

// Register attaches srv to the registrar under EventLogService.
func Register(registrar grpc.ServiceRegistrar, srv RecordServer) {
	registrar.RegisterService(&serviceDesc, srv)
}

func recordHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(RecordServer).Record(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: recordFullMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RecordServer).Record(ctx, req.(*structpb.Struct))
	}

	return interceptor(ctx, in, info, handler)
}
