// Package http provides HTTP handlers and middleware for the household API.
//
// The router exposes the following endpoints:
//   - POST /login: issues a session token. Body: {"email","password"}. Response:
//     {"token","expires_at","principal":{"user_id","is_admin"}} with token also
//     surfaced via the `X-Session-Token` header and a `session_token` cookie.
//   - POST /logout: revokes the current session token extracted from the Authorization
//     header, the `X-Session-Token` header, or the session cookie. Returns 204 No
//     Content and clears the cookie.
//   - POST /sessions/refresh: rotates the current session token and extends its
//     expiry. The old token stops working immediately.
//   - GET /jobs, POST /jobs, GET/PUT/DELETE /jobs/{id}: job catalog endpoints
//     exchanging the `jobDTO` payload defined in job_handler.go. GET /jobs with a
//     `date=YYYY-MM-DD` query parameter returns the board for that date instead:
//     only the jobs occurring then, each with per-assignment completion state.
//     GET /jobs/{id}?date=... projects a single job onto a date the same way.
//   - POST /jobs/{id}/assignments, PUT/DELETE /jobs/{id}/assignments/{aid}:
//     assignment management exchanging the `assignmentDTO` payload.
//   - PUT/DELETE /jobs/{id}/assignments/{aid}/completion?date=...: mark or clear
//     one assignment's completion for a date. PUT/DELETE /jobs/{id}/completion
//     addresses the whole-job ledger entry used by jobs without per-assignment
//     tracking.
//   - GET /users, POST /users, GET/PUT/DELETE /users/{id}: user management
//     exchanging the `userDTO` payload defined in user_handler.go. Creation and
//     deletion require admin privileges.
//   - GET /shopping-lists, POST /shopping-lists, GET/PUT/DELETE
//     /shopping-lists/{id}, POST /shopping-lists/{id}/items, PUT/DELETE
//     /shopping-lists/{id}/items/{itemID}, DELETE /shopping-lists/{id}/items/checked:
//     shopping list endpoints exchanging the payloads defined in shopping_handler.go.
//   - GET /calendar-sources, POST /calendar-sources, PUT/DELETE
//     /calendar-sources/{id}: external iCal feed registration. Mutations require
//     admin privileges.
//   - GET /settings, PUT /settings: household settings. Updates require admin
//     privileges.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
