package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Clinic HR Performance API",
        "description": "Performance evaluation engine for the clinic HR back office",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Periods", "description": "Evaluation period lifecycle"},
        {"name": "Evaluations", "description": "Evaluation tasks, submissions and results"},
        {"name": "Objectives", "description": "Individual objective tracking"},
        {"name": "Feedback", "description": "Continuous feedback notes"}
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and obtain an access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/periods": {
            "get": {
                "tags": ["Periods"],
                "summary": "List evaluation periods",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "state", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Periods"],
                "summary": "Create an evaluation period",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePeriodRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload or date range"}
                }
            }
        },
        "/periods/{id}": {
            "get": {
                "tags": ["Periods"],
                "summary": "Get one period with its evaluation tasks",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Period not found"}
                }
            }
        },
        "/periods/{id}/start": {
            "post": {
                "tags": ["Periods"],
                "summary": "Start a period and generate evaluation tasks",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Period not found"},
                    "409": {"description": "Period is not in configuration state"}
                }
            }
        },
        "/evaluations/pending": {
            "get": {
                "tags": ["Evaluations"],
                "summary": "List the caller's pending evaluation tasks",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/evaluations/{id}/submit": {
            "post": {
                "tags": ["Evaluations"],
                "summary": "Submit answers for an evaluation task",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Task belongs to a different rater"},
                    "404": {"description": "Task not found"},
                    "409": {"description": "Task already completed"}
                }
            }
        },
        "/evaluations/stats": {
            "get": {
                "tags": ["Evaluations"],
                "summary": "Aggregate completion statistics",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "periodId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/{employeeId}/results": {
            "get": {
                "tags": ["Evaluations"],
                "summary": "Consolidated evaluation results for an employee",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "employeeId", "in": "path", "required": true, "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/{employeeId}/results/export": {
            "get": {
                "tags": ["Evaluations"],
                "summary": "Export consolidated results as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "employeeId", "in": "path", "required": true, "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Unsupported format"}
                }
            }
        },
        "/employees/{employeeId}/objectives": {
            "get": {
                "tags": ["Objectives"],
                "summary": "List an employee's objectives",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "employeeId", "in": "path", "required": true, "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Objectives"],
                "summary": "Create an objective",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "employeeId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateObjectiveRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Employee not found"}
                }
            }
        },
        "/objectives/{id}/progress": {
            "patch": {
                "tags": ["Objectives"],
                "summary": "Update objective progress",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProgressRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Objective not found"}
                }
            }
        },
        "/employees/{employeeId}/feedback": {
            "get": {
                "tags": ["Feedback"],
                "summary": "List feedback for an employee",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "employeeId", "in": "path", "required": true, "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Feedback"],
                "summary": "Leave feedback for an employee",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "employeeId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateFeedbackRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreatePeriodRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "start_date": {"type": "string", "format": "date"},
                "end_date": {"type": "string", "format": "date"},
                "evaluator_weights": {
                    "type": "object",
                    "additionalProperties": {"type": "number"}
                }
            },
            "required": ["name", "start_date", "end_date"]
        },
        "SubmitRequest": {
            "type": "object",
            "properties": {
                "responses": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ResponseItem"}
                },
                "strengths": {"type": "string"},
                "improvement_areas": {"type": "string"},
                "general_comment": {"type": "string"}
            },
            "required": ["responses"]
        },
        "ResponseItem": {
            "type": "object",
            "properties": {
                "score": {"type": "number"},
                "weight": {"type": "number"},
                "qualitative_notes": {"type": "string"}
            }
        },
        "CreateObjectiveRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "metric": {"type": "string"},
                "target_value": {"type": "number"},
                "weight": {"type": "number"},
                "year": {"type": "integer"},
                "due_date": {"type": "string", "format": "date"}
            },
            "required": ["title"]
        },
        "UpdateProgressRequest": {
            "type": "object",
            "properties": {
                "progress_percent": {"type": "number"},
                "current_value": {"type": "number"},
                "comment": {"type": "string"}
            },
            "required": ["progress_percent"]
        },
        "CreateFeedbackRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["RECOGNITION", "IMPROVEMENT", "GENERAL"]},
                "message": {"type": "string"},
                "public": {"type": "boolean"},
                "competency": {"type": "string"}
            },
            "required": ["type", "message"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"}
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
