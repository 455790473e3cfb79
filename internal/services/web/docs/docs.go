// Package docs registers the OpenAPI document served at /api/docs
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/charts": {
            "get": {
                "tags": ["classify"],
                "summary": "Dashboard figures",
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Charts"}}}}
                }
            }
        },
        "/categories": {
            "get": {
                "tags": ["classify"],
                "summary": "Category names in model output order",
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CategoriesResponse"}}}}
                }
            }
        },
        "/classify": {
            "get": {
                "tags": ["classify"],
                "summary": "Classify a message from the query string",
                "parameters": [
                    {"name": "query", "in": "query", "required": true, "schema": {"type": "string", "maxLength": 5000}}
                ],
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Classification"}}}}
                }
            },
            "post": {
                "tags": ["classify"],
                "summary": "Classify a message from a JSON body",
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ClassifyRequest"}}}
                },
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Classification"}}}}
                }
            }
        },
        "/meta/health": {
            "get": {
                "tags": ["meta"],
                "summary": "Liveness",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/meta/ready": {
            "get": {
                "tags": ["meta"],
                "summary": "Readiness of the message store and the analytics sink",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/meta/version": {
            "get": {
                "tags": ["meta"],
                "summary": "Build information",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/analytics/runs": {
            "get": {
                "tags": ["analytics"],
                "summary": "Recent training runs",
                "parameters": [
                    {"name": "limit", "in": "query", "schema": {"type": "integer", "default": 20}}
                ],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Invalid limit"}}
            }
        },
        "/analytics/labels": {
            "get": {
                "tags": ["analytics"],
                "summary": "Most predicted labels",
                "parameters": [
                    {"name": "hours", "in": "query", "schema": {"type": "integer", "default": 24}},
                    {"name": "limit", "in": "query", "schema": {"type": "integer", "default": 20}}
                ],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Invalid hours or limit"}}
            }
        }
    },
    "components": {
        "schemas": {
            "ClassifyRequest": {
                "type": "object",
                "required": ["query"],
                "properties": {"query": {"type": "string", "maxLength": 5000}}
            },
            "LabelFlag": {
                "type": "object",
                "properties": {"category": {"type": "string"}, "flag": {"type": "integer"}}
            },
            "Classification": {
                "type": "object",
                "properties": {
                    "query": {"type": "string"},
                    "labels": {"type": "array", "items": {"$ref": "#/components/schemas/LabelFlag"}},
                    "positive": {"type": "array", "items": {"type": "string"}}
                }
            },
            "CategoriesResponse": {
                "type": "object",
                "properties": {"categories": {"type": "array", "items": {"type": "string"}}}
            },
            "Charts": {
                "type": "object",
                "properties": {"figures": {"type": "array", "items": {"type": "object"}}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Disaster Response API",
	Description:      "Multi-label classification of disaster messages",
	InfoInstanceName: "disasterresponse",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
