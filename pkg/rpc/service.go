package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/fibermonitor/fibermonitor/pkg/fiber"
	"github.com/fibermonitor/fibermonitor/pkg/form"
)

const (
	ServiceName      = "fibermonitor.v1.AssessmentService"
	FullMethodAssess = "/" + ServiceName + "/Assess"
)

// AssessmentServer is the server API for AssessmentService.
type AssessmentServer interface {
	Assess(ctx context.Context, in *form.Submission) (*fiber.Assessment, error)
}

// ServiceDesc describes AssessmentService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AssessmentServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Assess", Handler: assessHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fibermonitor/v1/assessment.json",
}

// RegisterAssessmentServer registers srv on s.
func RegisterAssessmentServer(s grpc.ServiceRegistrar, srv AssessmentServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func assessHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(form.Submission)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AssessmentServer).Assess(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethodAssess}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AssessmentServer).Assess(ctx, req.(*form.Submission))
	}
	return interceptor(ctx, in, info, handler)
}
