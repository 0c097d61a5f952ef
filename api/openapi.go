// Package api embeds the analysis service contract.
package api

import _ "embed"

//go:embed openapi.yaml
var Spec []byte
