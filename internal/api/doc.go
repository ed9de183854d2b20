// Package api is the HTTP client for the records API.
//
// Client.FetchPage issues GET /api/{resource} with page, limit, search, sort,
// order and filter parameters, and returns the decoded items with the total
// match count. Responses with status >= 400 come back as *StatusError. Every
// request carries an X-Request-ID header so client and server logs can be
// joined.
//
// CachedSource sits in front of any PageSource. Successful pages are kept in
// an expiring LRU, identical in-flight requests share one upstream call, and
// a query with Reload set skips the cached entry and refreshes it.
package api
