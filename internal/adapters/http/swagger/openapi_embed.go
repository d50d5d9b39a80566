package swagger

import _ "embed"

// OpenAPI is the document served at /openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPI []byte
