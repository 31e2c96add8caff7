// Package http provides HTTP handlers and middleware for the booking API.
//
// The router exposes the following endpoints:
//   - POST /bookings: creates a visit series from a series payload. The
//     response echoes the stored series including expanded visits and the
//     pricing breakdown.
//   - GET /bookings/{id}: fetches a stored series by its anchor id.
//   - PUT /bookings/{id}: saves an edited series projection. The body may
//     carry an explicit visit list; visits without an id are inserted,
//     visits with a stored id are updated, and stored visits absent from
//     the list are deleted.
//   - DELETE /bookings/{id}: deletes the series and all dependent rows.
//   - POST /bookings/preview: expands and prices a series without
//     persisting anything. Drives the live summary on the booking form.
//   - GET /catalog/services, GET /catalog/addons: reference data.
//   - GET /catalog/members?date=YYYY-MM-DD&time=HH:MM: staff options for a
//     slot, partitioned into available and unavailable groups.
//
// Identity is taken from the X-Company-ID and X-Operator-ID headers set by
// the fronting proxy; this service performs no authentication itself.
package http
