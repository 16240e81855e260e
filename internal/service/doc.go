// Package service contains the application services that translate
// authorized requests into store operations. Every operation takes an
// explicit actor derived from the session once per request; no service
// reads identity from ambient state.
package service
