package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProjectionClient calls the projection service over a client connection
type ProjectionClient struct {
	cc grpc.ClientConnInterface
}

// NewProjectionClient creates a new client over cc
func NewProjectionClient(cc grpc.ClientConnInterface) *ProjectionClient {
	return &ProjectionClient{cc: cc}
}

// Call invokes a projection method by name, e.g. "GetTimeline".
// A nil request is sent as an empty struct.
func (c *ProjectionClient) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
