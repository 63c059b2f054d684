// Package token performs structural checks on bearer tokens: is a string a
// plausibly shaped token at all?
//
// The client never holds the signing key, so this package never verifies
// signatures and never trusts claim contents for access decisions. Format
// validation gates what the session store will accept; unverified claim
// inspection exists only for display hints and audit metadata. The backend's
// 401 channel is the real enforcement backstop.
package token
