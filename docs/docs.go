// Package docs holds the OpenAPI document for the assistance API. It is
// maintained by hand in swag's registration layout alongside the handler
// annotations; tests in internal/http compare its paths with the registered
// routes and its definitions with the handler DTOs.
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
        "/code-review": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Asks the completion service to review the submitted code for the referenced problem.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Assistance"],
                "summary": "Review code against a problem",
                "operationId": "codeReview",
                "parameters": [
                    {"description": "Code review payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CodeReviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.CodeReviewResponse"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Problem not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Not configured, upstream or persistence failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/roadmap": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Builds a personalized roadmap from the caller's goals and progress.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Assistance"],
                "summary": "Generate a learning roadmap",
                "operationId": "roadmap",
                "parameters": [
                    {"description": "Roadmap preferences", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.RoadmapRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.RoadmapResponse"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Not configured, upstream or persistence failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/hint": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Returns a nudge toward a solution without revealing it.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Assistance"],
                "summary": "Get a hint for a problem",
                "operationId": "hint",
                "parameters": [
                    {"description": "Hint payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.HintRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HintResponse"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Problem not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Not configured, upstream or persistence failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/debug": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Explains the reported error in the submitted code. A problem reference is optional.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Assistance"],
                "summary": "Explain an error and suggest fixes",
                "operationId": "debug",
                "parameters": [
                    {"description": "Debug payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.DebugRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.DebugResponse"}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Not configured, upstream or persistence failure", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/history": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Returns the caller's interactions newest first. Supports weak ETag via If-None-Match and may return 304.",
                "produces": ["application/json"],
                "tags": ["History"],
                "summary": "List the caller's interactions (paginated)",
                "operationId": "history",
                "parameters": [
                    {"type": "string", "description": "Return 304 if ETag matches", "name": "If-None-Match", "in": "header"},
                    {"minimum": 1, "type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"maximum": 100, "minimum": 1, "type": "integer", "default": 20, "description": "Items per page", "name": "limit", "in": "query"},
                    {"enum": ["code_review", "roadmap", "hint", "debug_help"], "type": "string", "description": "Assistance type", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HistoryResponse"}, "headers": {"ETag": {"type": "string", "description": "Weak ETag for current result"}}},
                    "304": {"description": "Not Modified", "schema": {"type": "string"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/feedback/{interactionId}": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Overwrites the feedback on one of the caller's interactions.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Feedback"],
                "summary": "Leave feedback on an interaction",
                "operationId": "submitFeedback",
                "parameters": [
                    {"type": "string", "description": "Interaction ID (UUID)", "name": "interactionId", "in": "path", "required": true},
                    {"description": "Feedback payload", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.FeedbackRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.MessageResponse"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "403": {"description": "Not the interaction owner", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Interaction not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "extract.Complexity": {
            "type": "object",
            "properties": {
                "space": {"type": "string"},
                "time": {"type": "string"}
            }
        },
        "handlers.CodeReviewRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "func twoSum(nums []int, target int) []int { return nil }"},
                "language": {"type": "string", "example": "go"},
                "problemId": {"type": "string", "example": "two-sum"}
            }
        },
        "handlers.CodeReviewResponse": {
            "type": "object",
            "properties": {
                "complexity": {"$ref": "#/definitions/extract.Complexity"},
                "interactionId": {"type": "string", "example": "5f0c1a52-8d4e-4a5b-9b9e-2f6d7c3e1a10"},
                "review": {"type": "string"},
                "suggestions": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handlers.RoadmapRequest": {
            "type": "object",
            "properties": {
                "currentLevel": {"type": "string", "example": "beginner"},
                "goals": {"type": "array", "items": {"type": "string"}, "example": ["pass FAANG interviews"]},
                "preferredTopics": {"type": "array", "items": {"type": "string"}, "example": ["graphs"]},
                "timeCommitment": {"type": "string", "example": "5 hours/week"}
            }
        },
        "handlers.RoadmapResponse": {
            "type": "object",
            "properties": {
                "estimatedDuration": {"type": "string", "example": "8 weeks"},
                "interactionId": {"type": "string"},
                "phases": {"type": "array", "items": {"type": "string"}},
                "roadmap": {"type": "string"}
            }
        },
        "handlers.HintRequest": {
            "type": "object",
            "properties": {
                "currentCode": {"type": "string"},
                "language": {"type": "string", "example": "python"},
                "problemId": {"type": "string", "example": "two-sum"}
            }
        },
        "handlers.HintResponse": {
            "type": "object",
            "properties": {
                "approach": {"type": "array", "items": {"type": "string"}},
                "hint": {"type": "string"},
                "interactionId": {"type": "string"}
            }
        },
        "handlers.DebugRequest": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string", "example": "index out of range [3] with length 3"},
                "language": {"type": "string", "example": "go"},
                "problemId": {"type": "string"}
            }
        },
        "handlers.DebugResponse": {
            "type": "object",
            "properties": {
                "explanation": {"type": "string"},
                "fixes": {"type": "array", "items": {"type": "string"}},
                "interactionId": {"type": "string"}
            }
        },
        "handlers.FeedbackDTO": {
            "type": "object",
            "properties": {
                "comment": {"type": "string"},
                "helpful": {"type": "boolean"},
                "rating": {"type": "number"},
                "submittedAt": {"type": "string"}
            }
        },
        "handlers.ProblemSummaryDTO": {
            "type": "object",
            "properties": {
                "difficulty": {"type": "string", "example": "easy"},
                "title": {"type": "string", "example": "Two Sum"}
            }
        },
        "handlers.InteractionDTO": {
            "type": "object",
            "properties": {
                "context": {"type": "object", "additionalProperties": true},
                "createdAt": {"type": "string"},
                "feedback": {"$ref": "#/definitions/handlers.FeedbackDTO"},
                "id": {"type": "string"},
                "problem": {"$ref": "#/definitions/handlers.ProblemSummaryDTO"},
                "problemId": {"type": "string"},
                "query": {"type": "string", "example": "Code review for: Two Sum"},
                "response": {"type": "string"},
                "responseTimeMs": {"type": "integer"},
                "tokensUsed": {"type": "integer"},
                "type": {"type": "string", "example": "code_review"}
            }
        },
        "handlers.HistoryResponse": {
            "type": "object",
            "properties": {
                "currentPage": {"type": "integer"},
                "interactions": {"type": "array", "items": {"$ref": "#/definitions/handlers.InteractionDTO"}},
                "total": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        },
        "handlers.FeedbackRequest": {
            "type": "object",
            "properties": {
                "comment": {"type": "string", "example": "Spotted my off-by-one"},
                "helpful": {"type": "boolean", "example": true},
                "rating": {"type": "number", "example": 4.5}
            }
        },
        "handlers.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "Feedback submitted successfully"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "not_found"},
                "message": {"type": "string", "example": "Problem not found"},
                "request_id": {"type": "string", "example": "123e4567-e89b-12d3-a456-426614174000"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1/ai",
	Schemes:          []string{},
	Title:            "CodeMentor AI Assistance API",
	Description:      "Code review, learning roadmaps, hints and debugging help backed by an OpenAI-compatible completion service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
