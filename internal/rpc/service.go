// Package rpc exposes the codec table and detector as the endcode.v1.Codec
// gRPC service. Messages are protobuf Struct values so that no generated
// code is required on either side.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "endcode.v1.Codec"

// Full method names, as seen by interceptors.
const (
	MethodEncode  = "/" + ServiceName + "/Encode"
	MethodDecode  = "/" + ServiceName + "/Decode"
	MethodDetect  = "/" + ServiceName + "/Detect"
	MethodFormats = "/" + ServiceName + "/Formats"
)

// CodecServer is the server API for the endcode.v1.Codec service.
type CodecServer interface {
	Encode(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Decode(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Detect(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Formats(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterCodecServer registers srv with the gRPC registrar.
func RegisterCodecServer(s grpc.ServiceRegistrar, srv CodecServer) {
	s.RegisterService(&CodecServiceDesc, srv)
}

type unaryMethod func(CodecServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CodecServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CodecServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// CodecServiceDesc is the grpc.ServiceDesc for the endcode.v1.Codec service.
var CodecServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CodecServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Encode", Handler: unaryHandler(MethodEncode, CodecServer.Encode)},
		{MethodName: "Decode", Handler: unaryHandler(MethodDecode, CodecServer.Decode)},
		{MethodName: "Detect", Handler: unaryHandler(MethodDetect, CodecServer.Detect)},
		{MethodName: "Formats", Handler: unaryHandler(MethodFormats, CodecServer.Formats)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "endcode/v1/codec.proto",
}

// Client calls the endcode.v1.Codec service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Encode calls Codec.Encode with {format, text}.
func (c *Client) Encode(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodEncode, in, opts...)
}

// Decode calls Codec.Decode with {format, text}.
func (c *Client) Decode(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodDecode, in, opts...)
}

// Detect calls Codec.Detect with {text}.
func (c *Client) Detect(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodDetect, in, opts...)
}

// Formats calls Codec.Formats with an optional {family}.
func (c *Client) Formats(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodFormats, in, opts...)
}
