// Package session implements the server-side session model: opaque,
// HMAC-signed tokens mapped to an authenticated identity with a fixed
// lifetime. The session record is the only channel through which identity
// reaches the rest of the application; there is no per-request
// re-authentication of credentials.
package session
