package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "jobmate.jobs.v1.JobService"

// JobServiceServer is the server API for JobService. Every method takes and
// returns a google.protobuf.Struct.
type JobServiceServer interface {
	CreateJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListJobs(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(JobServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// ServiceDesc describes JobService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*JobServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateJob", Handler: unary("CreateJob", JobServiceServer.CreateJob)},
		{MethodName: "ListJobs", Handler: unary("ListJobs", JobServiceServer.ListJobs)},
		{MethodName: "GetJob", Handler: unary("GetJob", JobServiceServer.GetJob)},
		{MethodName: "UpdateJob", Handler: unary("UpdateJob", JobServiceServer.UpdateJob)},
		{MethodName: "RemoveJob", Handler: unary("RemoveJob", JobServiceServer.RemoveJob)},
	},
	Streams: []grpc.StreamDesc{},
}

// Register attaches srv to s.
func Register(s grpc.ServiceRegistrar, srv JobServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unary(method string, call unaryCall) grpc.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(JobServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(JobServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client calls JobService over cc.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient returns a Client using cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateJob(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "CreateJob", in, opts...)
}

func (c *Client) ListJobs(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListJobs", in, opts...)
}

func (c *Client) GetJob(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetJob", in, opts...)
}

func (c *Client) UpdateJob(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "UpdateJob", in, opts...)
}

func (c *Client) RemoveJob(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "RemoveJob", in, opts...)
}
