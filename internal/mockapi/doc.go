// Package mockapi serves a demo records API for the console.
//
// Six resources (students, health-records, medications, vaccinations,
// inventory, users) are generated from a seed, so the same seed always
// serves the same rows. List endpoints accept page, limit, search, sort,
// order and per-resource equality filters, and respond with
//
//	{"items": [...], "total": N, "page": P, "limit": L}
//
// Latency, jitter and a failure rate can be injected to exercise slow,
// out-of-order and failing fetches from the client side.
package mockapi
