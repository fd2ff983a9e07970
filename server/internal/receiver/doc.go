// Package receiver implements rpc.AssessmentServer, the gRPC endpoint of the
// fiber monitor.
//
// Receiver.Assess validates the submission with the form package and returns
// the engine's assessment. A rejected submission answers
// codes.InvalidArgument with "<field>: <message>". Authentication is enforced
// upstream by the gRPC server interceptor (see package auth).
//
// New(metrics) wires the receiver to the service counters.
package receiver
