// Package docs provides the OpenAPI/Swagger annotations for the
// voxtrace serve command's debug HTTP API. Grounded on the teacher's
// internal/api/docs/swagger.go: a blank import of swaggo/swag plus
// package-level @-annotations, with no generated spec checked in here
// — `swag init` would regenerate this file's annotations into the
// JSON/YAML doc.json pair gin-swagger serves from internal/streamserver.
//
//	@title			voxtrace render API
//	@version		1.0.0
//	@description	Debug HTTP/websocket API for a running voxtrace serve process: render frames, inspect scene/BVH stats, and stream frames over a websocket.
//
//	@contact.name	voxtrace
//
//	@license.name	MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token issued by "voxtrace serve --issue-token"; only required when security.enable_auth is set.
//
//	@tag.name			Frame
//	@tag.description	Single-frame and streaming render endpoints
//
//	@tag.name			Health
//	@tag.description	Liveness and scene-generation inspection
package docs

import (
	_ "github.com/swaggo/swag"
)
