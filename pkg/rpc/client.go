package rpc

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/fibermonitor/fibermonitor/pkg/fiber"
	"github.com/fibermonitor/fibermonitor/pkg/form"
)

const (
	backoffInitial    = 100 * time.Millisecond
	backoffMax        = 2 * time.Second
	backoffMultiplier = 2.0
	callTimeout       = 10 * time.Second

	// DefaultHeader is the metadata key carrying the API key.
	DefaultHeader = "x-api-key"
)

// Options configures a Client.
type Options struct {
	// APIKey is sent in metadata under Header when non-empty.
	APIKey string
	// Header defaults to DefaultHeader.
	Header string
	// Attempts bounds tries per call, including the first. Zero means 3.
	Attempts int
	// DialOptions are appended to the defaults (insecure transport).
	DialOptions []grpc.DialOption
}

// Client calls AssessmentService.
type Client struct {
	conn *grpc.ClientConn
	opts Options
}

// Dial opens a connection to endpoint (host:port).
func Dial(ctx context.Context, endpoint string, opts Options) (*Client, error) {
	if opts.Header == "" {
		opts.Header = DefaultHeader
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts.DialOptions...)

	conn, err := grpc.DialContext(ctx, endpoint, dialOpts...) //nolint:staticcheck // deprecated in 1.63 but DialContext is used for compat
	if err != nil {
		return nil, fmt.Errorf("rpc: dial %s: %w", endpoint, err)
	}
	return &Client{conn: conn, opts: opts}, nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Assess sends one submission. Transient errors are retried with backoff;
// permanent ones (see IsPermanent) are returned as-is.
func (c *Client) Assess(ctx context.Context, sub form.Submission) (*fiber.Assessment, error) {
	if c.opts.APIKey != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, c.opts.Header, c.opts.APIKey)
	}

	bo := newBackoff()
	var lastErr error
	for attempt := 1; attempt <= c.opts.Attempts; attempt++ {
		out := new(fiber.Assessment)
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		err := c.conn.Invoke(callCtx, FullMethodAssess, &sub, out, grpc.ForceCodec(Codec{}))
		cancel()
		if err == nil {
			return out, nil
		}
		if IsPermanent(err) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err

		if attempt == c.opts.Attempts {
			break
		}
		wait := bo.next()
		slog.Debug("rpc: transient error, will retry", "attempt", attempt, "err", err, "retry_in", wait)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("rpc: assess failed after %d attempts: %w", c.opts.Attempts, lastErr)
}

// IsPermanent reports whether err will fail again on retry: the submission
// itself is invalid or the caller is not allowed.
func IsPermanent(err error) bool {
	switch status.Code(err) {
	case codes.InvalidArgument, codes.Unauthenticated, codes.PermissionDenied, codes.Unimplemented:
		return true
	}
	return false
}

// backoff implements truncated exponential backoff with jitter.
type backoff struct {
	current time.Duration
}

func newBackoff() *backoff {
	return &backoff{current: backoffInitial}
}

// next returns the current backoff duration and advances the internal state.
func (b *backoff) next() time.Duration {
	d := b.current
	// Apply ±25 % jitter.
	jitter := time.Duration(float64(b.current) * 0.25 * (rand.Float64()*2 - 1)) //nolint:gosec // not crypto
	d += jitter
	if d < 0 {
		d = 0
	}

	b.current = time.Duration(float64(b.current) * backoffMultiplier)
	if b.current > backoffMax {
		b.current = backoffMax
	}
	return d
}
