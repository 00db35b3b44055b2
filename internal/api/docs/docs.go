// Package docs carries the bridge's OpenAPI document. The API surface is a
// single JSON-RPC endpoint plus health checks, so the document is
// maintained by hand and embedded rather than generated.
package docs

import _ "embed"

//go:embed openapi.json
var OpenAPI []byte
