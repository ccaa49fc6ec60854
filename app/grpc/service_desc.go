package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service plumbing for proto/glucose/v1/readings.proto. The service only uses well-known
// types, so no message code is generated; this file follows protoc-gen-go-grpc's layout.
const (
	ServiceName = "glucose.v1.ReadingService"

	MethodListReadings  = "/" + ServiceName + "/ListReadings"
	MethodGetSummary    = "/" + ServiceName + "/GetSummary"
	MethodDeleteReading = "/" + ServiceName + "/DeleteReading"
)

type ReadingServiceServer interface {
	ListReadings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetSummary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteReading(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
}

// UnimplementedReadingServiceServer can be embedded to keep servers compiling when methods
// are added to the service.
type UnimplementedReadingServiceServer struct{}

func (UnimplementedReadingServiceServer) ListReadings(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListReadings not implemented")
}

func (UnimplementedReadingServiceServer) GetSummary(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSummary not implemented")
}

func (UnimplementedReadingServiceServer) DeleteReading(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteReading not implemented")
}

var ReadingServiceDesc = gogrpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReadingServiceServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{MethodName: "ListReadings", Handler: listReadingsHandler},
		{MethodName: "GetSummary", Handler: getSummaryHandler},
		{MethodName: "DeleteReading", Handler: deleteReadingHandler},
	},
	Streams:  []gogrpc.StreamDesc{},
	Metadata: "glucose/v1/readings.proto",
}

func RegisterReadingServiceServer(s gogrpc.ServiceRegistrar, srv ReadingServiceServer) {
	s.RegisterService(&ReadingServiceDesc, srv)
}

func listReadingsHandler(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReadingServiceServer).ListReadings(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: MethodListReadings}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReadingServiceServer).ListReadings(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getSummaryHandler(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReadingServiceServer).GetSummary(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetSummary}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReadingServiceServer).GetSummary(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func deleteReadingHandler(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReadingServiceServer).DeleteReading(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: MethodDeleteReading}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReadingServiceServer).DeleteReading(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

type ReadingServiceClient struct {
	cc gogrpc.ClientConnInterface
}

func NewReadingServiceClient(cc gogrpc.ClientConnInterface) *ReadingServiceClient {
	return &ReadingServiceClient{cc: cc}
}

func (c *ReadingServiceClient) ListReadings(ctx context.Context, in *structpb.Struct, opts ...gogrpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodListReadings, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ReadingServiceClient) GetSummary(ctx context.Context, in *structpb.Struct, opts ...gogrpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetSummary, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ReadingServiceClient) DeleteReading(ctx context.Context, in *structpb.Struct, opts ...gogrpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, MethodDeleteReading, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
