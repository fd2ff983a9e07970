// Package api implements the HTTP REST API of the fiber monitor.
//
// New(store, metrics) returns an http.Handler that serves:
//
//	GET    /api/v1/health          status and open session count
//	GET    /api/v1/zones           ratio band table with labels
//	POST   /api/v1/assess          one-shot assessment of a submission
//	POST   /api/v1/sessions        open a form session
//	GET    /api/v1/sessions/{id}   current assessment of a session
//	PUT    /api/v1/sessions/{id}   submit; replaces the current assessment
//	DELETE /api/v1/sessions/{id}   reset the form; clears the assessment
//
// Submissions are accepted as JSON or as URL-encoded form posts. Validation
// failures answer 422 with {error, kind, field, hint}; malformed bodies 400.
// All responses are application/json. No external HTTP framework is used.
package api
