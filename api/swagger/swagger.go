package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Aula Sync API",
        "description": "Sync backend for the classroom management app",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Sync", "description": "Generic table upload/download"},
        {"name": "Authentication", "description": "Accounts, login and recovery"},
        {"name": "Payments", "description": "PayPal order verification"},
        {"name": "Exports", "description": "Grade and attendance sheets"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/sync/{tabla}": {
            "post": {
                "tags": ["Sync"],
                "summary": "Upload a batch of rows",
                "parameters": [
                    {"name": "tabla", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "array", "items": {"type": "object"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown table, column or empty batch", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Sync"],
                "summary": "Download every row of a table",
                "parameters": [
                    {"name": "tabla", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sync/{tabla}/{userId}": {
            "get": {
                "tags": ["Sync"],
                "summary": "Download a table scoped to a professor",
                "parameters": [
                    {"name": "tabla", "in": "path", "required": true, "type": "string"},
                    {"name": "userId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Sync"],
                "summary": "Delete one row by id",
                "parameters": [
                    {"name": "tabla", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a new user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Email already registered", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/recover-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Reset the credential via security answers",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecoverPasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Recovery data mismatch", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/check-user": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Check whether a phone number is registered",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CheckUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/usuarios-sync": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Upload user profile rows",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "array", "items": {"type": "object"}}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/verify-payment": {
            "post": {
                "tags": ["Payments"],
                "summary": "Verify a PayPal order and record the purchase",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VerifyPaymentRequest"}}
                ],
                "responses": {
                    "200": {"description": "Verified", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Order not completed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/export/{tabla}/{profesorId}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export a professor's table as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "tabla", "in": "path", "required": true, "type": "string"},
                    {"name": "profesorId", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Rendered document"},
                    "400": {"description": "Table not exportable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "nombre": {"type": "string"},
                "apellido": {"type": "string"},
                "correo": {"type": "string"},
                "telefono": {"type": "string"},
                "rol": {"type": "string"},
                "contrasena": {"type": "string"},
                "pregunta_seguridad_1": {"type": "string"},
                "respuesta_seguridad_1": {"type": "string"},
                "pregunta_seguridad_2": {"type": "string"},
                "respuesta_seguridad_2": {"type": "string"},
                "pregunta_seguridad_3": {"type": "string"},
                "respuesta_seguridad_3": {"type": "string"},
                "escuela_id": {"type": "integer"}
            },
            "required": ["nombre", "correo", "telefono", "contrasena"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "correo": {"type": "string"},
                "contrasena": {"type": "string"}
            },
            "required": ["correo", "contrasena"]
        },
        "RecoverPasswordRequest": {
            "type": "object",
            "properties": {
                "telefono": {"type": "string"},
                "nueva_contrasena": {"type": "string"},
                "respuesta_seguridad_1": {"type": "string"},
                "respuesta_seguridad_2": {"type": "string"},
                "respuesta_seguridad_3": {"type": "string"}
            },
            "required": ["telefono", "nueva_contrasena"]
        },
        "CheckUserRequest": {
            "type": "object",
            "properties": {
                "telefono": {"type": "string"}
            },
            "required": ["telefono"]
        },
        "VerifyPaymentRequest": {
            "type": "object",
            "properties": {
                "orderID": {"type": "string"},
                "profesorId": {"type": "integer"},
                "cantidadAsignaturas": {"type": "integer"}
            },
            "required": ["orderID", "profesorId"]
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
