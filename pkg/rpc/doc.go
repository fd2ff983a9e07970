// Package rpc defines the gRPC wire contract of the fiber monitor, shared by
// the server and the fibercheck CLI.
//
// The service is fibermonitor.v1.AssessmentService with one unary method:
//
//	Assess(form.Submission) returns (fiber.Assessment)
//
// Messages travel as JSON through Codec instead of generated protobuf stubs,
// so the request and response schemas are exactly those of the REST API.
// Servers register with grpc.ForceServerCodec(rpc.Codec{}); Client forces the
// same codec per call.
//
// Client.Assess retries transient failures (Unavailable, DeadlineExceeded)
// with truncated exponential backoff (100ms→2s, ±25% jitter) and returns
// permanent ones (InvalidArgument, Unauthenticated) immediately.
package rpc
