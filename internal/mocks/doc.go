// Package mocks provides hand-written mock implementations of the store
// and auth interfaces for testing. Each mock exposes function fields so a
// test can override a single method, plus a map-backed default behavior
// that is good enough for happy-path tests.
package mocks
