package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
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
    <title>jobtrack API</title>
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

// Minimal OpenAPI document covering the public surface.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "jobtrack", "version": "v0.1.0" },
  "paths": {
    "/api/v1/auth/link": {
      "post": { "summary": "Request a one-time sign-in link", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"name":{"type":"string"}}}}}}, "responses": { "200": { "description": "link sent" } } }
    },
    "/api/v1/auth/verify": {
      "post": { "summary": "Exchange a sign-in token for access and refresh tokens", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"token":{"type":"string"}}}}}}, "responses": { "200": { "description": "tokens returned" }, "401": { "description": "invalid or expired link" } } }
    },
    "/api/v1/auth/refresh": {
      "post": { "summary": "Refresh access token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refreshToken":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/api/v1/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "responses": { "200": { "description": "logged out" } } }
    },
    "/api/v1/me": {
      "get": { "summary": "Get the authenticated user", "responses": { "200": { "description": "user" } } }
    },
    "/api/v1/applications": {
      "get": { "summary": "List the caller's job applications, newest first", "responses": { "200": { "description": "applications" } } },
      "post": { "summary": "Create a job application", "responses": { "201": { "description": "created" }, "400": { "description": "validation failed" } } }
    },
    "/api/v1/applications/{id}": {
      "get": { "summary": "Fetch one application", "responses": { "200": { "description": "application" }, "404": { "description": "not found" } } },
      "patch": { "summary": "Update supplied fields only", "responses": { "200": { "description": "updated" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete an application", "responses": { "204": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/v1/applications/{id}/interview-prep": {
      "post": { "summary": "Append an interview prep note", "responses": { "200": { "description": "application with the new note" } } }
    },
    "/api/v1/documents": {
      "get": { "summary": "List documents with resolved URLs", "responses": { "200": { "description": "documents" } } },
      "post": { "summary": "Upload a document (multipart field 'file')", "responses": { "201": { "description": "created" } } }
    },
    "/api/v1/documents/{id}": {
      "delete": { "summary": "Delete a document and its blob", "responses": { "204": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/api/v1/generate": {
      "post": { "summary": "Generate resume or cover letter text", "responses": { "200": { "description": "generated content" }, "502": { "description": "provider failed" } } }
    },
    "/api/v1/extract-text": {
      "post": { "summary": "Extract plain text from an uploaded document", "responses": { "200": { "description": "extracted text" } } }
    },
    "/api/v1/parse-job": {
      "post": { "summary": "Best-effort pre-fill from a job posting URL", "responses": { "200": { "description": "parsed fields, possibly empty" } } }
    },
    "/api/v1/search-jobs": {
      "post": { "summary": "Proxy the external job search endpoint", "responses": { "200": { "description": "search results" }, "503": { "description": "not configured" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
