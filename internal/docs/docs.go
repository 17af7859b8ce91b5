// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o internal/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Liveness and database reachability",
                "operationId": "health",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange credentials for an access token",
                "operationId": "login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.Session"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Create an account",
                "operationId": "register",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/services.RegisterInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/services.Session"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Current token claims",
                "operationId": "me",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/hr/employees/{id}/leaves": {
            "get": {
                "tags": ["HR"],
                "summary": "Leave requests of one employee",
                "operationId": "employeeLeaves",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/hr/leaves/pending": {
            "get": {
                "tags": ["HR"],
                "summary": "Pending leave requests",
                "operationId": "pendingLeaves",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/finance/invoices": {
            "get": {
                "tags": ["Finance"],
                "summary": "List invoices",
                "operationId": "listInvoices",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "304": {"description": "Not modified"}}
            },
            "post": {
                "tags": ["Finance"],
                "summary": "Create an invoice with line items",
                "operationId": "createInvoice",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "Idempotency-Key", "in": "header"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/services.InvoiceInput"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/finance/invoices/{id}": {
            "get": {
                "tags": ["Finance"],
                "summary": "Invoice with line items",
                "operationId": "getInvoice",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Finance"],
                "summary": "Delete an invoice and its line items",
                "operationId": "deleteInvoice",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}}}
            }
        },
        "/finance/invoices/{id}/status": {
            "patch": {
                "tags": ["Finance"],
                "summary": "Set invoice status",
                "operationId": "setInvoiceStatus",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.StatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.StatusResponse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/crm/leads/{id}/convert": {
            "post": {
                "tags": ["CRM"],
                "summary": "Convert a lead into a customer",
                "operationId": "convertLead",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/system/logs": {
            "get": {
                "tags": ["System"],
                "summary": "List activity log entries",
                "operationId": "activityLogs",
                "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "limit", "in": "query", "default": 50, "maximum": 200, "minimum": 1}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/system/summary": {
            "get": {
                "tags": ["System"],
                "summary": "Row counts and newest creation time per table",
                "operationId": "systemSummary",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "not_found"},
                "message": {"type": "string", "example": "employee not found"},
                "request_id": {"type": "string"}
            }
        },
        "handlers.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string", "example": "Deleted successfully"}}
        },
        "handlers.StatusRequest": {
            "type": "object",
            "properties": {"status": {"type": "string", "example": "Paid"}}
        },
        "handlers.StatusResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "status": {"type": "string"}}
        },
        "handlers.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string", "example": "admin@test.com"},
                "password": {"type": "string", "example": "password"}
            }
        },
        "services.RegisterInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "example": "user"}
            }
        },
        "services.Session": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "user": {"type": "object"}}
        },
        "services.InvoiceInput": {
            "type": "object",
            "properties": {
                "customer": {"type": "string"},
                "date": {"type": "string", "example": "2025-01-31"},
                "dueDate": {"type": "string"},
                "status": {"type": "string", "example": "Pending"},
                "items": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "id": {"type": "string"},
                            "name": {"type": "string"},
                            "quantity": {"type": "integer"},
                            "price": {"type": "number"}
                        }
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Financa ERP API",
	Description:      "CRUD backend for HR, finance, inventory, CRM, purchasing and system administration.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
