// Package cookie provides a cookie manager with HMAC-SHA256 signing so the
// server can detect tampered values. Secrets are rotatable: the first secret
// signs new cookies while every configured secret is accepted for
// verification.
package cookie
