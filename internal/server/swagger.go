package server

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:generate swag init -g internal/server/server.go -o internal/server/docs

// @title GEO Optimizer API
// @version 1.0
// @description Audit websites for visibility in AI search engines.
// @contact.name GEO Optimizer Maintainers
// @contact.url https://github.com/auriti-labs/geo-optimizer
// @BasePath /

//go:embed docs/swagger.json
var swaggerDoc string

type apiDoc struct{}

func (apiDoc) ReadDoc() string { return swaggerDoc }

func init() {
	swag.Register(swag.Name, apiDoc{})
}
