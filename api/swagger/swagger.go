package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMA Timetable Viewer API",
        "description": "Class and faculty views over generated timetables, with print and export.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Views", "description": "Timetable view lifecycle and state"},
        {"name": "Exports", "description": "Print and downloadable exports of a view"},
        {"name": "Timetables", "description": "Stored generated timetables"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unreachable"}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "Metrics"}}
            }
        },
        "/api/v1/timetables": {
            "get": {
                "tags": ["Timetables"],
                "summary": "List stored timetables",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer", "description": "Maximum number of timetables (default 20, max 100)"}
                ],
                "responses": {
                    "200": {"description": "Timetables", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Timetable storage disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/views": {
            "post": {
                "tags": ["Views"],
                "summary": "Open a timetable view",
                "description": "Opens a view over an inline timetable or a stored timetable id. The first entity of the active collection is selected.",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OpenViewRequest"}},
                    {"name": "refresh", "in": "query", "required": false, "type": "boolean"}
                ],
                "responses": {
                    "201": {"description": "Rendered view", "schema": {"$ref": "#/definitions/ViewEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Timetable not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "413": {"description": "Payload too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/views/{id}": {
            "get": {
                "tags": ["Views"],
                "summary": "Render a timetable view",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Rendered view", "schema": {"$ref": "#/definitions/ViewEnvelope"}},
                    "404": {"description": "View not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Views"],
                "summary": "Close a timetable view",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Closed"},
                    "404": {"description": "View not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/views/{id}/view-type": {
            "put": {
                "tags": ["Views"],
                "summary": "Switch between class and faculty timetables",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SwitchViewRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rendered view", "schema": {"$ref": "#/definitions/ViewEnvelope"}},
                    "400": {"description": "Unknown view type", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "View not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/views/{id}/selection": {
            "put": {
                "tags": ["Views"],
                "summary": "Select a class or faculty member",
                "description": "Unknown ids are accepted and render without a grid.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SelectItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rendered view", "schema": {"$ref": "#/definitions/ViewEnvelope"}},
                    "404": {"description": "View not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/views/{id}/print": {
            "get": {
                "tags": ["Exports"],
                "summary": "Print the current view",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Inline PDF", "schema": {"type": "file"}},
                    "404": {"description": "View not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/views/{id}/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Export a view",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Signed download link", "schema": {"$ref": "#/definitions/ExportEnvelope"}},
                    "400": {"description": "Invalid format or scope", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "View not found or expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Nothing to export", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Export failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/exports/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an export",
                "security": [{"BearerAuth": []}],
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Export file", "schema": {"type": "file"}},
                    "404": {"description": "Link not recognised", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "410": {"description": "Link expired", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "OpenViewRequest": {
            "type": "object",
            "properties": {
                "timetable": {"$ref": "#/definitions/Timetable"},
                "timetableId": {"type": "string"},
                "viewType": {"type": "string", "enum": ["classes", "faculty"]},
                "refresh": {"type": "boolean"},
                "backUrl": {"type": "string"}
            }
        },
        "SwitchViewRequest": {
            "type": "object",
            "required": ["viewType"],
            "properties": {
                "viewType": {"type": "string", "enum": ["classes", "faculty"]}
            }
        },
        "SelectItemRequest": {
            "type": "object",
            "required": ["id"],
            "properties": {
                "id": {"type": "string"}
            }
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "enum": ["csv", "xlsx", "pdf"]},
                "scope": {"type": "string", "enum": ["all", "current"]}
            }
        },
        "Timetable": {
            "type": "object",
            "properties": {
                "semester": {"type": "string"},
                "workingDays": {"type": "array", "items": {"type": "string"}},
                "timeSlots": {"type": "array", "items": {"$ref": "#/definitions/TimeSlot"}},
                "classes": {"type": "array", "items": {"$ref": "#/definitions/Class"}},
                "faculty": {"type": "array", "items": {"$ref": "#/definitions/Faculty"}},
                "stats": {"$ref": "#/definitions/TimetableStats"}
            }
        },
        "TimeSlot": {
            "type": "object",
            "properties": {
                "start": {"type": "string"},
                "end": {"type": "string"}
            }
        },
        "Class": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "batch": {"type": "string"},
                "schedule": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/Session"}}}
            }
        },
        "Faculty": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "schedule": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/Session"}}}
            }
        },
        "Session": {
            "type": "object",
            "properties": {
                "subject": {"type": "string"},
                "type": {"type": "string"},
                "room": {"type": "string"},
                "faculty": {"type": "string"},
                "class": {"type": "string"},
                "batch": {"type": "string"}
            }
        },
        "TimetableStats": {
            "type": "object",
            "properties": {
                "totalClasses": {"type": "integer"},
                "totalSubjects": {"type": "integer"},
                "totalFaculty": {"type": "integer"},
                "roomUtilization": {"type": "number"}
            }
        },
        "View": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "viewType": {"type": "string"},
                "selectedId": {"type": "string"},
                "heading": {"type": "object"},
                "viewTypes": {"type": "array", "items": {"$ref": "#/definitions/Option"}},
                "options": {"type": "array", "items": {"$ref": "#/definitions/Option"}},
                "grid": {"type": "object", "description": "null when there is no current data"},
                "summary": {"type": "object"},
                "links": {"type": "object"},
                "updatedAt": {"type": "string", "format": "date-time"}
            }
        },
        "Option": {
            "type": "object",
            "properties": {
                "value": {"type": "string"},
                "label": {"type": "string"}
            }
        },
        "Export": {
            "type": "object",
            "properties": {
                "exportId": {"type": "string"},
                "format": {"type": "string"},
                "scope": {"type": "string"},
                "filename": {"type": "string"},
                "url": {"type": "string"},
                "expiresAt": {"type": "string", "format": "date-time"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        },
        "ViewEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/View"}
            }
        },
        "ExportEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/Export"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
