package receiver

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fibermonitor/fibermonitor/pkg/fiber"
	"github.com/fibermonitor/fibermonitor/pkg/form"
	"github.com/fibermonitor/fibermonitor/pkg/rpc"
	"github.com/fibermonitor/fibermonitor/server/internal/metrics"
)

// Receiver implements rpc.AssessmentServer.
type Receiver struct {
	metrics *metrics.Registry
}

var _ rpc.AssessmentServer = (*Receiver)(nil)

// New creates a Receiver that records outcomes in m. m may be nil.
func New(m *metrics.Registry) *Receiver {
	return &Receiver{metrics: m}
}

// Assess is the unary RPC handler. It validates the submission and returns
// its assessment. Authentication is enforced by the gRPC server interceptor
// before this is called.
func (r *Receiver) Assess(ctx context.Context, in *form.Submission) (*fiber.Assessment, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "submission is required")
	}

	a, err := form.Assess(*in)
	r.metrics.Observe(a, err)
	if err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			return nil, rpc.InvalidSubmission(verr)
		}
		return nil, status.Error(codes.Internal, err.Error())
	}

	slog.Debug("receiver: assessment computed",
		"zone", a.Zone,
		"suggested_target", a.Target.SuggestedTarget,
		"ratio", a.Target.Ratio,
	)
	return &a, nil
}
