package apiclient

import "github.com/marmos91/sysauth/pkg/identity"

// LookupByUIDRequest is the body of a by-uid lookup.
type LookupByUIDRequest struct {
	Hostname string `json:"hostname"`
	UserID   uint32 `json:"userId"`
}

// LookupByNameRequest is the body of a by-name lookup.
type LookupByNameRequest struct {
	Hostname string `json:"hostname"`
	Name     string `json:"name"`
}

// PasswordEntry is the identity record as carried on the wire.
type PasswordEntry struct {
	Name   string `json:"name"`
	Passwd string `json:"passwd"`
	UID    uint32 `json:"uid"`
	GID    uint32 `json:"gid"`
	Gecos  string `json:"gecos"`
	Dir    string `json:"dir"`
	Shell  string `json:"shell"`
}

// ToPasswd copies the entry verbatim into an identity.Passwd.
func (p *PasswordEntry) ToPasswd() *identity.Passwd {
	if p == nil {
		return nil
	}
	return &identity.Passwd{
		Name:   p.Name,
		Passwd: p.Passwd,
		UID:    p.UID,
		GID:    p.GID,
		Gecos:  p.Gecos,
		Dir:    p.Dir,
		Shell:  p.Shell,
	}
}

// PasswordEntryFrom converts an identity.Passwd into its wire form.
func PasswordEntryFrom(p *identity.Passwd) *PasswordEntry {
	if p == nil {
		return nil
	}
	return &PasswordEntry{
		Name:   p.Name,
		Passwd: p.Passwd,
		UID:    p.UID,
		GID:    p.GID,
		Gecos:  p.Gecos,
		Dir:    p.Dir,
		Shell:  p.Shell,
	}
}

// Envelope wraps every lookup response.
//
// ResultCode zero means success and must then come with a PasswordEntry.
// Any other value means the service has no record for the query.
// ResultCode is a pointer so that a body without it can be rejected.
type Envelope struct {
	ResultCode    *int32         `json:"resultCode"`
	ErrorMessage  *string        `json:"errorMessage,omitempty"`
	PasswordEntry *PasswordEntry `json:"passwordEntry,omitempty"`
}

// Code returns the result code, or -1 when absent.
func (e *Envelope) Code() int32 {
	if e == nil || e.ResultCode == nil {
		return -1
	}
	return *e.ResultCode
}

// Message returns the error message, or "" when absent.
func (e *Envelope) Message() string {
	if e == nil || e.ErrorMessage == nil {
		return ""
	}
	return *e.ErrorMessage
}

// FoundEnvelope builds a successful response carrying p.
func FoundEnvelope(p *identity.Passwd) Envelope {
	code := int32(0)
	return Envelope{ResultCode: &code, PasswordEntry: PasswordEntryFrom(p)}
}

// NotFoundEnvelope builds a "no such record" response.
func NotFoundEnvelope(code int32, message string) Envelope {
	return Envelope{ResultCode: &code, ErrorMessage: &message}
}
