// Package docs holds the generated swagger specification served at /swagger/.
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
        "/api/elections/v1/elections": {
            "get": {
                "produces": ["application/json"],
                "tags": ["elections"],
                "summary": "List elections with derived status",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["elections"],
                "summary": "Create an election (owner only)",
                "parameters": [
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/api/elections/v1/elections/{election_key}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["elections"],
                "summary": "Get one election with derived status",
                "parameters": [
                    {"type": "string", "name": "election_key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["elections"],
                "summary": "Update an open election (admin only)",
                "parameters": [
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "name": "election_key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "422": {"description": "Unprocessable Entity"}
                }
            },
            "delete": {
                "tags": ["elections"],
                "summary": "Delete an election and its records (owner only)",
                "parameters": [
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "name": "election_key", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/api/elections/v1/elections/{election_key}/votes": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ballots"],
                "summary": "Cast a vote for a party by name",
                "parameters": [
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "name": "election_key", "in": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "402": {"description": "Payment Required"},
                    "409": {"description": "Conflict"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/api/elections/v1/elections/{election_key}/results": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tally"],
                "summary": "Read party tallies, derived status, and any resolved winner set",
                "parameters": [
                    {"type": "string", "name": "election_key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/elections/v1/elections/{election_key}/winners": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tally"],
                "summary": "Read the resolved winner set",
                "parameters": [
                    {"type": "string", "name": "election_key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "post": {
                "produces": ["application/json"],
                "tags": ["tally"],
                "summary": "Resolve the winner set exactly once (admin only)",
                "parameters": [
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "name": "election_key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Conflict"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        },
        "/api/stewardship/v1/owner": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stewardship"],
                "summary": "Read the current owner record",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/stewardship/v1/transfer": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["stewardship"],
                "summary": "Nominate a pending owner (owner only)",
                "parameters": [
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/api/stewardship/v1/accept": {
            "post": {
                "produces": ["application/json"],
                "tags": ["stewardship"],
                "summary": "Accept a pending ownership transfer",
                "parameters": [
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "Electorate API",
	Description:      "Election lifecycle, ballots, tally and ownership stewardship.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
