// Package http provides HTTP handlers and middleware for the studio calendar API.
//
// The router exposes the following endpoints:
//   - POST /recurrence/preview: expands a recurrence rule. Body:
//     {"rule":{"type","days_of_week","start_date","end_date"},"template"?,"studio_slug"?}.
//     Response: {"dates","sessions","warnings"} using the DTOs in preview_handler.go.
//     A studio slug requires a template and adds instructor conflict warnings.
//   - GET /studios/{slug}/calendar/week?date=YYYY-MM-DD: Monday..Sunday of the
//     week containing date (default today) with per-session availability.
//   - GET /studios/{slug}/calendar/month?date=YYYY-MM-DD: the 42 cell month grid.
//   - GET /availability?booked=N&capacity=M: {"state","spots_available","bookable"}.
//   - GET /healthz: {"status":"ok"} once the snapshot store answers a ping.
//
// Calendar and preview responses carry an ETag derived from the encoded body.
// GET requests whose If-None-Match matches receive 304 Not Modified.
// Calendar responses set "stale" when they were served from the local snapshot.
package http
