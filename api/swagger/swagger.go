package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "College Plan API",
        "description": "Lesson scheduling and reconciliation engine",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Administrator authentication"},
        {"name": "Catalog", "description": "Groups, subjects, teachers and rooms"},
        {"name": "Load Specs", "description": "Semester load table"},
        {"name": "Planning", "description": "Weekly distribution generation"},
        {"name": "Day Plans", "description": "Dated plan generation, diff and approval"},
        {"name": "Room Swaps", "description": "Cascading room reassignment"},
        {"name": "Progress", "description": "Delivered hour tracking"},
        {"name": "Calendar", "description": "Holidays and week parity"}
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
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate an administrator",
                "responses": {
                    "200": {"description": "Access token issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/planning/distributions": {
            "post": {
                "tags": ["Planning"],
                "summary": "Generate weekly distributions from the load table",
                "responses": {
                    "200": {"description": "Generation summary"},
                    "409": {"description": "Distributions exist, force required"}
                }
            }
        },
        "/planning/weekly": {
            "get": {
                "tags": ["Planning"],
                "summary": "Get the weekly template",
                "responses": {
                    "200": {"description": "Weekly distributions"}
                }
            }
        },
        "/day-plans": {
            "post": {
                "tags": ["Day Plans"],
                "summary": "Build the plan for one date",
                "responses": {
                    "200": {"description": "Materialised plan with diff"},
                    "409": {"description": "Plan exists, force required"}
                }
            }
        },
        "/day-plans/{date}": {
            "get": {
                "tags": ["Day Plans"],
                "summary": "Get the plan of one date with its weekly diff",
                "responses": {
                    "200": {"description": "Materialised plan"},
                    "404": {"description": "No plan for date"}
                }
            }
        },
        "/day-plans/{date}/report": {
            "get": {
                "tags": ["Day Plans"],
                "summary": "Validate the plan of one date",
                "responses": {
                    "200": {"description": "Validation report"}
                }
            }
        },
        "/day-plans/{date}/approve": {
            "post": {
                "tags": ["Day Plans"],
                "summary": "Approve the plan and record delivered hours",
                "responses": {
                    "200": {"description": "Approval result"},
                    "409": {"description": "Blocking conflicts present"}
                }
            }
        },
        "/day-plans/{date}/export": {
            "get": {
                "tags": ["Day Plans"],
                "summary": "Export the plan as CSV or PDF",
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/room-swaps/propose": {
            "post": {
                "tags": ["Room Swaps"],
                "summary": "Compute a room swap chain without applying it",
                "responses": {
                    "200": {"description": "Proposed move chain"}
                }
            }
        },
        "/room-swaps/execute": {
            "post": {
                "tags": ["Room Swaps"],
                "summary": "Apply a room swap chain atomically",
                "responses": {
                    "200": {"description": "Executed move chain"},
                    "409": {"description": "Swap cannot be auto resolved"}
                }
            }
        },
        "/progress/summary": {
            "get": {
                "tags": ["Progress"],
                "summary": "Aggregate delivery against the load table",
                "responses": {
                    "200": {"description": "Per load row summary"}
                }
            }
        }
    },
    "definitions": {
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
