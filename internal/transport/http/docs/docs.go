// Package docs embeds the OpenAPI document of the REST API.
package docs

import (
	_ "embed"
	"net/http"
)

//go:embed openapi.json
var openAPI []byte

// OpenAPI returns the raw OpenAPI document.
func OpenAPI() []byte {
	return openAPI
}

// Handler serves the OpenAPI document.
func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(openAPI)
}
