// Package middleware provides gin middleware for the admin endpoint.
package middleware
