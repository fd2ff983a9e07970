// Package auth enforces the optional API key on the fiber monitor's gRPC and
// HTTP surfaces.
//
// New(mode, header, key) builds a Verifier. UnaryInterceptor reads the key
// from the named gRPC metadata header; Middleware reads it from the HTTP
// header of the same name.
//
// When mode != "apikey" or key == "", all calls pass through (useful for local
// development with auth disabled). When the key is incorrect or absent,
// gRPC calls fail with codes.Unauthenticated and HTTP requests with 401.
package auth
