// Package identity holds the canonical user-identity record returned by
// remote lookups.
package identity

import (
	"strconv"
	"strings"
)

// Passwd is a user account record shaped like a classic passwd(5) entry.
//
// A Passwd is a plain value: it is built once per lookup and never mutated
// afterwards.
type Passwd struct {
	// Name is the login name.
	Name string `json:"name" yaml:"name"`

	// Passwd is the password field as published by the identity service.
	// Remote lookups normally carry a placeholder such as "x".
	Passwd string `json:"passwd" yaml:"passwd"`

	// UID is the numeric user ID.
	UID uint32 `json:"uid" yaml:"uid"`

	// GID is the numeric primary group ID.
	GID uint32 `json:"gid" yaml:"gid"`

	// Gecos is the free-form user information field.
	Gecos string `json:"gecos" yaml:"gecos"`

	// Dir is the home directory.
	Dir string `json:"dir" yaml:"dir"`

	// Shell is the login shell.
	Shell string `json:"shell" yaml:"shell"`
}

// String renders the record as a passwd(5) line:
// name:passwd:uid:gid:gecos:dir:shell
func (p Passwd) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	b.WriteByte(':')
	b.WriteString(p.Passwd)
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(uint64(p.UID), 10))
	b.WriteByte(':')
	b.WriteString(strconv.FormatUint(uint64(p.GID), 10))
	b.WriteByte(':')
	b.WriteString(p.Gecos)
	b.WriteByte(':')
	b.WriteString(p.Dir)
	b.WriteByte(':')
	b.WriteString(p.Shell)
	return b.String()
}

// Headers implements output.TableRenderer.
func (p Passwd) Headers() []string {
	return []string{"NAME", "UID", "GID", "GECOS", "HOME", "SHELL"}
}

// Rows implements output.TableRenderer.
func (p Passwd) Rows() [][]string {
	return [][]string{{
		p.Name,
		strconv.FormatUint(uint64(p.UID), 10),
		strconv.FormatUint(uint64(p.GID), 10),
		p.Gecos,
		p.Dir,
		p.Shell,
	}}
}
