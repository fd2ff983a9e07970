package rpc

import (
	"errors"
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/fibermonitor/fibermonitor/pkg/form"
)

// ErrorDomain tags the ErrorInfo detail attached to rejected submissions.
const ErrorDomain = "fibermonitor"

// Rejection is a submission failure decoded from a gRPC status.
type Rejection struct {
	Kind    form.Kind
	Field   string
	Message string
	Hint    string
}

// Error renders the rejection the way the form shows it.
func (r Rejection) Error() string {
	if r.Hint == "" {
		return r.Message
	}
	return r.Message + ": " + r.Hint
}

// InvalidSubmission converts verr into an InvalidArgument status carrying an
// ErrorInfo detail with the failed field, message and hint.
func InvalidSubmission(verr *form.ValidationError) error {
	st := status.New(codes.InvalidArgument, fmt.Sprintf("%s: %s", verr.Field, verr.Message))
	withInfo, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason: string(verr.Kind),
		Domain: ErrorDomain,
		Metadata: map[string]string{
			"field":   verr.Field,
			"message": verr.Message,
			"hint":    verr.Hint(),
		},
	})
	if err != nil {
		return st.Err()
	}
	return withInfo.Err()
}

// Message returns the server's description from the status err wraps, or
// err.Error() when err carries no status.
func Message(err error) string {
	var se interface{ GRPCStatus() *status.Status }
	if errors.As(err, &se) {
		return se.GRPCStatus().Message()
	}
	return err.Error()
}

// AsRejection extracts the Rejection carried by an InvalidArgument status
// built by InvalidSubmission. Wrapped errors are unwrapped first.
func AsRejection(err error) (Rejection, bool) {
	var se interface{ GRPCStatus() *status.Status }
	if !errors.As(err, &se) {
		return Rejection{}, false
	}
	st := se.GRPCStatus()
	if st.Code() != codes.InvalidArgument {
		return Rejection{}, false
	}
	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != ErrorDomain {
			continue
		}
		md := info.GetMetadata()
		return Rejection{
			Kind:    form.Kind(info.GetReason()),
			Field:   md["field"],
			Message: md["message"],
			Hint:    md["hint"],
		}, true
	}
	return Rejection{}, false
}
