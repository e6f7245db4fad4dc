package apiclient

import (
	"net/url"
	"strconv"
)

// Query is what a lookup asks for: a user by numeric id or by name.
//
// The set of implementations is closed; use ByUID or ByName.
type Query interface {
	// Method is the lookup kind as it appears in the URL path ("uid" or "name").
	Method() string

	// Key is the value being looked up, in its URL path form.
	Key() string

	// body returns the JSON request body for hostname.
	body(hostname string) any
}

// ByUID looks a user up by numeric id.
type ByUID uint32

// Method implements Query.
func (ByUID) Method() string { return "uid" }

// Key implements Query.
func (q ByUID) Key() string { return strconv.FormatUint(uint64(q), 10) }

func (q ByUID) body(hostname string) any {
	return LookupByUIDRequest{Hostname: hostname, UserID: uint32(q)}
}

// ByName looks a user up by login name.
type ByName string

// Method implements Query.
func (ByName) Method() string { return "name" }

// Key implements Query.
func (q ByName) Key() string { return string(q) }

func (q ByName) body(hostname string) any {
	return LookupByNameRequest{Hostname: hostname, Name: string(q)}
}

// RecordPath returns the path of the record endpoint for q, relative to the
// base URL. Hostname and key are escaped as single path segments.
func RecordPath(hostname string, q Query) string {
	return "/identity/record/" + q.Method() + "/" + url.PathEscape(hostname) + "/" + url.PathEscape(q.Key())
}
