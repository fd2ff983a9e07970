package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ModeAPIKey is the only mode that enforces a key.
const ModeAPIKey = "apikey"

// QueryParam carries the key on HTTP requests that cannot set headers,
// such as a browser WebSocket handshake.
const QueryParam = "api_key"

// Verifier checks a presented API key against the configured one.
type Verifier struct {
	mode   string
	header string
	key    string
}

// New returns a Verifier. header should be lowercase; gRPC normalises
// metadata keys to lowercase and HTTP header lookup is case-insensitive.
func New(mode, header, key string) Verifier {
	return Verifier{mode: mode, header: header, key: key}
}

// Enabled reports whether requests must carry the key. Non-apikey modes and
// an unconfigured key allow everything.
func (v Verifier) Enabled() bool {
	return v.mode == ModeAPIKey && v.key != ""
}

// Check reports whether presented matches the configured key.
func (v Verifier) Check(presented string) bool {
	if !v.Enabled() {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(v.key)) == 1
}

// UnaryInterceptor returns a gRPC interceptor that enforces the key on
// every unary call. A missing, empty or incorrect key returns
// codes.Unauthenticated.
func (v Verifier) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if !v.Enabled() {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		vals := md.Get(v.header)
		if len(vals) == 0 || !v.Check(vals[0]) {
			return nil, status.Error(codes.Unauthenticated, "invalid api key")
		}

		return handler(ctx, req)
	}
}

// Middleware wraps next so that requests without the correct key receive
// 401 with a JSON error body. The key is read from the configured header,
// falling back to the QueryParam query parameter.
func (v Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if v.Enabled() && !v.Check(presentedKey(r, v.header)) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid api key"}) //nolint:errcheck
			return
		}
		next.ServeHTTP(w, r)
	})
}

func presentedKey(r *http.Request, header string) string {
	if k := r.Header.Get(header); k != "" {
		return k
	}
	return r.URL.Query().Get(QueryParam)
}
