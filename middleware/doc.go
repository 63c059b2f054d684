// Package middleware adapts the session authority to server-rendered routes:
// a guard that evaluates access before a protected view renders and answers
// denials with the matching HTTP redirect.
package middleware
