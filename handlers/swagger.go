package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the notes API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>gonotes - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "gonotes", "version": "v1.0.0" },
  "components": {
    "securitySchemes": {
      "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" },
      "legacyToken": { "type": "apiKey", "in": "header", "name": "auth-token" }
    },
    "schemas": {
      "Note": { "type": "object", "properties": {
        "id": {"type":"string"}, "owner": {"type":"string"}, "title": {"type":"string"},
        "content": {"type":"string"}, "author": {"type":"string"}, "createdAt": {"type":"string","format":"date-time"} } },
      "NoteInput": { "type": "object", "properties": {
        "title": {"type":"string","minLength":3}, "content": {"type":"string","minLength":5}, "author": {"type":"string","minLength":5} } },
      "FieldErrors": { "type": "object", "properties": { "errors": { "type": "array", "items": { "type": "object", "properties": {
        "type": {"type":"string"}, "value": {"type":"string"}, "msg": {"type":"string"}, "path": {"type":"string"}, "location": {"type":"string"} } } } } },
      "Error": { "type": "object", "properties": { "error": {"type":"string"} } }
    }
  },
  "paths": {
    "/notes/mine": {
      "get": { "summary": "List the caller's notes", "security": [{"bearer":[]},{"legacyToken":[]}],
        "responses": { "200": { "description": "notes", "content": {"application/json": {"schema": {"type":"array","items":{"$ref":"#/components/schemas/Note"}}}} }, "401": { "description": "unauthenticated" } } }
    },
    "/notes/all": {
      "get": { "summary": "List every note", "responses": { "200": { "description": "notes", "content": {"application/json": {"schema": {"type":"array","items":{"$ref":"#/components/schemas/Note"}}}} } } }
    },
    "/notes": {
      "post": { "summary": "Create a note", "security": [{"bearer":[]},{"legacyToken":[]}],
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/NoteInput"} } } },
        "responses": { "200": { "description": "created note" }, "400": { "description": "validation failed", "content": {"application/json": {"schema": {"$ref":"#/components/schemas/FieldErrors"}}} }, "401": { "description": "unauthenticated" } } }
    },
    "/notes/{id}": {
      "parameters": [{ "name": "id", "in": "path", "required": true, "schema": {"type":"string"} }],
      "get": { "summary": "Get a note", "responses": { "200": { "description": "note" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update fields of an owned note", "security": [{"bearer":[]},{"legacyToken":[]}],
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/NoteInput"} } } },
        "responses": { "200": { "description": "{note}" }, "401": { "description": "unauthenticated or not the owner" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete an owned note", "security": [{"bearer":[]},{"legacyToken":[]}],
        "responses": { "200": { "description": "{success, note}" }, "401": { "description": "unauthenticated or not the owner" }, "404": { "description": "not found" } } }
    },
    "/auth/revoke": {
      "post": { "summary": "Revoke the presented access token until it expires", "security": [{"bearer":[]},{"legacyToken":[]}],
        "responses": { "200": { "description": "revoked" }, "400": { "description": "token has no exp" }, "401": { "description": "unauthenticated" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
