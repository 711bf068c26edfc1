// Package domain holds the wire contracts of the inflammation service: the
// JSON patient record read by the JSON data source and the response bodies
// returned by the HTTP API.
package domain
