package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// passHandler is a grpc.UnaryHandler that returns ("ok", nil).
func passHandler(ctx context.Context, req interface{}) (interface{}, error) {
	return "ok", nil
}

func callWithKey(t *testing.T, interceptor grpc.UnaryServerInterceptor, header, key string) (interface{}, error) {
	t.Helper()
	ctx := context.Background()
	if key != "" {
		md := metadata.Pairs(header, key)
		ctx = metadata.NewIncomingContext(ctx, md)
	}
	return interceptor(ctx, nil, &grpc.UnaryServerInfo{}, passHandler)
}

func TestUnaryInterceptor_ModeNone_PassesThrough(t *testing.T) {
	i := New("none", "x-api-key", "secret").UnaryInterceptor()
	// No key in context; passes because mode != "apikey".
	res, err := i(context.Background(), nil, &grpc.UnaryServerInfo{}, passHandler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != "ok" {
		t.Errorf("result: got %v, want ok", res)
	}
}

func TestUnaryInterceptor_EmptyKey_PassesThrough(t *testing.T) {
	i := New("apikey", "x-api-key", "").UnaryInterceptor()
	res, err := i(context.Background(), nil, &grpc.UnaryServerInfo{}, passHandler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != "ok" {
		t.Errorf("result: got %v, want ok", res)
	}
}

func TestUnaryInterceptor_Keys(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		key      string
		wantCode codes.Code
	}{
		{"correct key", "x-api-key", "supersecret", codes.OK},
		{"wrong key", "x-api-key", "wrong", codes.Unauthenticated},
		{"key under another header", "x-other", "supersecret", codes.Unauthenticated},
		{"no metadata", "", "", codes.Unauthenticated},
	}
	i := New("apikey", "x-api-key", "supersecret").UnaryInterceptor()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := callWithKey(t, i, tc.header, tc.key)
			if code := status.Code(err); code != tc.wantCode {
				t.Fatalf("code: got %v, want %v", code, tc.wantCode)
			}
			if tc.wantCode == codes.OK && res != "ok" {
				t.Errorf("result: got %v, want ok", res)
			}
		})
	}
}

func TestUnaryInterceptor_EmptyMetadata(t *testing.T) {
	i := New("apikey", "x-api-key", "supersecret").UnaryInterceptor()
	ctx := metadata.NewIncomingContext(context.Background(), metadata.MD{})
	_, err := i(ctx, nil, &grpc.UnaryServerInfo{}, passHandler)
	if code := status.Code(err); code != codes.Unauthenticated {
		t.Errorf("code: got %v, want Unauthenticated", code)
	}
}

func TestMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		v        Verifier
		header   string
		query    string
		wantCode int
	}{
		{"disabled", New("none", "x-api-key", "k"), "", "", http.StatusNoContent},
		{"correct key", New("apikey", "x-api-key", "k"), "k", "", http.StatusNoContent},
		{"wrong key", New("apikey", "x-api-key", "k"), "nope", "", http.StatusUnauthorized},
		{"missing key", New("apikey", "x-api-key", "k"), "", "", http.StatusUnauthorized},
		{"key in query", New("apikey", "x-api-key", "k"), "", "k", http.StatusNoContent},
		{"wrong key in query", New("apikey", "x-api-key", "k"), "", "nope", http.StatusUnauthorized},
		{"header wins over query", New("apikey", "x-api-key", "k"), "nope", "k", http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			target := "/api/v1/health"
			if tc.query != "" {
				target += "?" + QueryParam + "=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.header != "" {
				req.Header.Set("X-Api-Key", tc.header)
			}
			rr := httptest.NewRecorder()
			tc.v.Middleware(next).ServeHTTP(rr, req)
			if rr.Code != tc.wantCode {
				t.Errorf("status: got %d, want %d", rr.Code, tc.wantCode)
			}
		})
	}
}
