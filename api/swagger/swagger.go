package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "HEI Portal API",
        "description": "Institutional reporting and review portal for higher-education institutions",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Submissions", "description": "Form submission pipeline"},
        {"name": "Subjects", "description": "Subject review workflow"},
        {"name": "Programs", "description": "Program catalog and adoption requests"},
        {"name": "Registrations", "description": "HEI sign-up and onboarding"},
        {"name": "Institutions", "description": "Institution directory"},
        {"name": "Faculty", "description": "Faculty roster"},
        {"name": "Exports", "description": "Listing downloads"}
    ],
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
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current account",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/submissions": {
            "get": {
                "tags": ["Submissions"],
                "summary": "List submissions",
                "parameters": [
                    {"name": "campus", "in": "query", "type": "string"},
                    {"name": "form_type", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Submissions"],
                "summary": "Submit a form",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitFormRequest"}}
                ],
                "responses": {
                    "201": {"description": "Stored", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload"},
                    "502": {"description": "Document service failure"}
                }
            }
        },
        "/submissions/{id}/pdf": {
            "get": {
                "tags": ["Submissions"],
                "summary": "Export a submission as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF bytes"},
                    "404": {"description": "Unknown submission"}
                }
            }
        },
        "/submissions/{id}": {
            "delete": {
                "tags": ["Submissions"],
                "summary": "Delete a submission record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subjects",
                "parameters": [
                    {"name": "campus", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "kind", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Submit a subject for review",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "syllabus", "in": "formData", "required": true, "type": "file"},
                    {"name": "campus", "in": "formData", "required": true, "type": "string"},
                    {"name": "kind", "in": "formData", "required": true, "type": "string"},
                    {"name": "code", "in": "formData", "required": true, "type": "string"},
                    {"name": "title", "in": "formData", "required": true, "type": "string"},
                    {"name": "units", "in": "formData", "type": "number"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{id}/status": {
            "post": {
                "tags": ["Subjects"],
                "summary": "Record a review decision",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DecisionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Outside the reviewer's region"}
                }
            }
        },
        "/programs/requests": {
            "get": {
                "tags": ["Programs"],
                "summary": "List program requests",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Programs"],
                "summary": "Open a program adoption request",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "master_program_id", "in": "formData", "required": true, "type": "string"},
                    {"name": "curriculum", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/registrations": {
            "get": {
                "tags": ["Registrations"],
                "summary": "List sign-up requests in the reviewer's region",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Registrations"],
                "summary": "Submit a sign-up request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRegistrationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/registrations/{id}/approve": {
            "post": {
                "tags": ["Registrations"],
                "summary": "Approve a sign-up and provision the institution",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Provisioned"},
                    "403": {"description": "Outside the reviewer's region"},
                    "409": {"description": "Already reviewed or duplicate campus"}
                }
            }
        },
        "/institutions": {
            "get": {
                "tags": ["Institutions"],
                "summary": "List institutions",
                "parameters": [
                    {"name": "region", "in": "query", "type": "string"},
                    {"name": "name", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/faculty": {
            "get": {
                "tags": ["Faculty"],
                "summary": "List the faculty roster",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Faculty"],
                "summary": "Add a roster member",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/FacultyRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/exports/submissions": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export submission history",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
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
        "SubmitFormRequest": {
            "type": "object",
            "properties": {
                "form_type": {"type": "string", "enum": ["form1", "form2"]},
                "campus": {"type": "string"},
                "payload": {"type": "object"},
                "document": {"type": "string", "description": "Pre-rendered spreadsheet, base64"},
                "file_name": {"type": "string"}
            },
            "required": ["form_type"]
        },
        "DecisionRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["Approved", "Declined"]}
            },
            "required": ["status"]
        },
        "CreateRegistrationRequest": {
            "type": "object",
            "properties": {
                "institution_name": {"type": "string"},
                "campus": {"type": "string"},
                "street": {"type": "string"},
                "municipality": {"type": "string"},
                "province": {"type": "string"},
                "region": {"type": "string"},
                "representative": {"type": "string"},
                "email": {"type": "string"}
            },
            "required": ["institution_name", "campus", "municipality", "province", "region", "representative", "email"]
        },
        "FacultyRequest": {
            "type": "object",
            "properties": {
                "campus": {"type": "string"},
                "name": {"type": "string"},
                "employment_status": {"type": "string", "enum": ["Permanent", "Temporary", "Contractual/COS"]},
                "attainment": {"type": "string", "enum": ["Bachelor's", "Master's", "Doctoral"]}
            },
            "required": ["campus", "name", "employment_status", "attainment"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
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
