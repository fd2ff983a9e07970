// Package ws implements the live form WebSocket endpoint of the fiber monitor.
//
// Each connection owns one store session. The server announces the session
// on connect, then answers every client frame:
//
//	client → {"event":"submit","data":{"age":"30","current_fiber":"20",...}}
//	server ← {"event":"assessment","data":{ /* same schema as POST /api/v1/assess */ }}
//
//	client → {"event":"reset"}
//	server ← {"event":"reset"}
//
// A rejected submission answers {"event":"error","error":{error,kind,field,hint}}
// and leaves the current assessment in place. The session is deleted when the
// connection closes. Hub.Run(ctx) closes all connections on shutdown.
// The endpoint is mounted at /ws/form by the server behind the API-key check;
// browsers pass the key as ?api_key=. Handshakes from a browser Origin not in
// the configured CORS origins are refused with 403.
package ws
