// Package docs registers the Swagger document of the Hurdl API
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "AdminBearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/login": {
            "post": {
                "summary": "Admin login",
                "tags": ["auth"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "Signed admin token"},
                    "401": {"description": "Invalid credentials, with the attempt number"},
                    "429": {"description": "Too many failed attempts"}
                }
            }
        },
        "/questions": {
            "get": {"summary": "Check-in question set", "tags": ["checkin"], "responses": {"200": {"description": "Questions, departments and locations"}}}
        },
        "/checkins": {
            "post": {
                "summary": "Start an anonymous check-in",
                "tags": ["checkin"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/StartRequest"}}],
                "responses": {"201": {"description": "Intro page"}, "400": {"description": "Unknown department or location"}, "429": {"description": "Rate limited"}}
            }
        },
        "/checkins/{id}": {
            "get": {
                "summary": "Current wizard page",
                "tags": ["checkin"],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Wizard page"}, "404": {"description": "Unknown session"}}
            }
        },
        "/checkins/{id}/advance": {
            "post": {
                "summary": "Answer the current question and move on",
                "tags": ["checkin"],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "schema": {"$ref": "#/definitions/CheckinAnswer"}}
                ],
                "responses": {"200": {"description": "Next wizard page"}, "400": {"description": "Invalid answer"}, "404": {"description": "Unknown session"}}
            }
        },
        "/checkins/{id}/chat": {
            "get": {
                "summary": "Assistant conversation",
                "tags": ["checkin"],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "Messages"}, "409": {"description": "Check-in not submitted yet"}}
            },
            "post": {
                "summary": "Send a message to the assistant",
                "tags": ["checkin"],
                "parameters": [
                    {"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/ChatRequest"}}
                ],
                "responses": {"200": {"description": "Messages"}, "409": {"description": "Check-in not submitted yet"}}
            }
        },
        "/dashboard": {
            "get": {
                "summary": "HR dashboard",
                "tags": ["dashboard"],
                "security": [{"AdminBearer": []}],
                "parameters": [
                    {"in": "query", "name": "start", "type": "string", "format": "date"},
                    {"in": "query", "name": "end", "type": "string", "format": "date"},
                    {"in": "query", "name": "department", "type": "string"},
                    {"in": "query", "name": "location", "type": "string"}
                ],
                "responses": {"200": {"description": "Dashboard"}, "400": {"description": "Bad date range"}, "401": {"description": "Missing or invalid token"}}
            }
        },
        "/dashboard/export.xlsx": {
            "get": {
                "summary": "Dashboard workbook",
                "tags": ["dashboard"],
                "security": [{"AdminBearer": []}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "responses": {"200": {"description": "xlsx file"}}
            }
        },
        "/ws/dashboard": {
            "get": {
                "summary": "Dashboard live events (websocket)",
                "tags": ["dashboard"],
                "parameters": [{"in": "query", "name": "token", "required": true, "type": "string"}],
                "responses": {"101": {"description": "Switching protocols"}, "401": {"description": "Missing or invalid token"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "StartRequest": {"type": "object", "properties": {"department": {"type": "string"}, "location": {"type": "string"}}},
        "CheckinAnswer": {"type": "object", "properties": {"value": {"type": "integer", "minimum": 1, "maximum": 5}, "text": {"type": "string"}}},
        "ChatRequest": {"type": "object", "properties": {"message": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Hurdl Wellbeing API",
	Description:      "Anonymous weekly check-ins and the HR wellbeing dashboard",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
