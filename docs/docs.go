// Package docs holds the OpenAPI description served at /swagger/*.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler
// annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Aldo Rifki Putra",
            "email": "aldoetobex@gmail.com"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/cases": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "All cases, optionally filtered by a search over case name, client name, status and opposing party",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "cases"
                ],
                "summary": "List cases",
                "parameters": [
                    {
                        "description": "search text",
                        "name": "q",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "page",
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "pageSize (0 = all)",
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/utils.Page-cases_CaseListItem"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Opens a case for an existing client. Priority defaults to medium and the court date to a week from today.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "cases"
                ],
                "summary": "Create case",
                "parameters": [
                    {
                        "description": "Case payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/cases.CreateCaseRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.CreatedResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ValidationErrorResponse"
                        }
                    }
                }
            }
        },
        "/cases/{id}": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Refused with 409 while invoices, reminders or time entries reference the case",
                "tags": [
                    "cases"
                ],
                "summary": "Delete case",
                "parameters": [
                    {
                        "description": "case id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/models.BlockedResponse"
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Full case including its activity log",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "cases"
                ],
                "summary": "Get case",
                "parameters": [
                    {
                        "description": "case id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.Case"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Partial update; omitted fields are left unchanged",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "cases"
                ],
                "summary": "Update case",
                "parameters": [
                    {
                        "description": "case id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "description": "Fields to change",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/cases.UpdateCaseRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.Case"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ValidationErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/cases/{id}/activity": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Appends a timestamped entry to the end of the case activity log",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "cases"
                ],
                "summary": "Log case activity",
                "parameters": [
                    {
                        "description": "case id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "description": "Activity",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/cases.ActivityRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.ActivityEntry"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ValidationErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/clients": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "All clients, optionally filtered by a case-insensitive search over name, phone and email",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "clients"
                ],
                "summary": "List clients",
                "parameters": [
                    {
                        "description": "search text",
                        "name": "q",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "page",
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "pageSize (0 = all)",
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/utils.Page-models_Client"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "clients"
                ],
                "summary": "Create client",
                "parameters": [
                    {
                        "description": "Client payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/clients.CreateClientRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.CreatedResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ValidationErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/clients/{id}": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Refused with 409 while cases, invoices, reminders or time entries reference the client",
                "tags": [
                    "clients"
                ],
                "summary": "Delete client",
                "parameters": [
                    {
                        "description": "client id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/models.BlockedResponse"
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "clients"
                ],
                "summary": "Get client",
                "parameters": [
                    {
                        "description": "client id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/clients.ClientDetail"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Partial update; omitted fields are left unchanged",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "clients"
                ],
                "summary": "Update client",
                "parameters": [
                    {
                        "description": "client id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "description": "Fields to change",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/clients.UpdateClientRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.Client"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ValidationErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/contracts/pdf": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/pdf"
                ],
                "tags": [
                    "contracts"
                ],
                "summary": "Download contract PDF",
                "parameters": [
                    {
                        "description": "Type, fields and optional images",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/contracts.PDFRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ValidationErrorResponse"
                        }
                    }
                }
            }
        },
        "/contracts/render": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Returns the ordered contract lines. Optional clauses whose fields are unset are left out.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contracts"
                ],
                "summary": "Render contract text",
                "parameters": [
                    {
                        "description": "Type and fields",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/contracts.RenderRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/contracts.RenderResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ValidationErrorResponse"
                        }
                    }
                }
            }
        },
        "/contracts/share": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Builds the PDF, e-mails it when an address is given and returns a WhatsApp link when a number is given",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contracts"
                ],
                "summary": "Share contract",
                "parameters": [
                    {
                        "description": "Contract and recipients",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/contracts.ShareRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/contracts.ShareResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ValidationErrorResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/contracts/types": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "contracts"
                ],
                "summary": "Supported contract types",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/contracts.TypeItem"
                            }
                        }
                    }
                }
            }
        },
        "/dashboard": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Totals, invoice split, upcoming reminders and cases per status",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "dashboard"
                ],
                "summary": "Office dashboard",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/store.Stats"
                        }
                    }
                }
            }
        },
        "/invoices": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "invoices"
                ],
                "summary": "List invoices",
                "parameters": [
                    {
                        "description": "true = paid only, false = unpaid only, omitted = all",
                        "name": "paid",
                        "in": "query",
                        "type": "boolean"
                    },
                    {
                        "description": "page",
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "pageSize (0 = all)",
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/utils.Page-invoices_InvoiceItem"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Date defaults to today and due date to 30 days later",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "invoices"
                ],
                "summary": "Create invoice",
                "parameters": [
                    {
                        "description": "Invoice payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/invoices.CreateInvoiceRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.CreatedResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ValidationErrorResponse"
                        }
                    }
                }
            }
        },
        "/invoices/{id}": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "invoices"
                ],
                "summary": "Delete invoice",
                "parameters": [
                    {
                        "description": "invoice id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "invoices"
                ],
                "summary": "Get invoice",
                "parameters": [
                    {
                        "description": "invoice id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/invoices.InvoiceItem"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "invoices"
                ],
                "summary": "Update invoice",
                "parameters": [
                    {
                        "description": "invoice id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "description": "Fields to change",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/invoices.UpdateInvoiceRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.Invoice"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ValidationErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/invoices/{id}/paid": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "invoices"
                ],
                "summary": "Set payment state",
                "parameters": [
                    {
                        "description": "invoice id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "description": "Payment state",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/invoices.PaidRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.Invoice"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/login": {
            "post": {
                "description": "Authenticate and receive a JWT",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Login payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/auth.LoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/auth.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ValidationErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/me": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Return the authenticated username",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Get current user",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/auth.MeResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/reminders": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Each reminder carries its derived status (completed, upcoming or overdue) and the name of what it points at",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reminders"
                ],
                "summary": "List reminders",
                "parameters": [
                    {
                        "description": "filter on derived status",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "page",
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "pageSize (0 = all)",
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/utils.Page-store_ReminderView"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "General reminders always get related_id 0; client and case reminders must point at an existing row (or 0)",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reminders"
                ],
                "summary": "Create reminder",
                "parameters": [
                    {
                        "description": "Reminder payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/reminders.CreateReminderRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.CreatedResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ValidationErrorResponse"
                        }
                    }
                }
            }
        },
        "/reminders/{id}": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "reminders"
                ],
                "summary": "Delete reminder",
                "parameters": [
                    {
                        "description": "reminder id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reminders"
                ],
                "summary": "Get reminder",
                "parameters": [
                    {
                        "description": "reminder id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/store.ReminderView"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reminders"
                ],
                "summary": "Update reminder",
                "parameters": [
                    {
                        "description": "reminder id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "description": "Fields to change",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/reminders.UpdateReminderRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/store.ReminderView"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ValidationErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/reminders/{id}/complete": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "reminders"
                ],
                "summary": "Complete reminder",
                "parameters": [
                    {
                        "description": "reminder id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/store.ReminderView"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/signup": {
            "post": {
                "description": "Register a new office account",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Sign up",
                "parameters": [
                    {
                        "description": "Signup payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/auth.SignupRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/auth.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ValidationErrorResponse"
                        }
                    },
                    "409": {
                        "description": "username already exists",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/time-entries": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "time-entries"
                ],
                "summary": "List time entries",
                "parameters": [
                    {
                        "description": "only this client",
                        "name": "client_id",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "page",
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "pageSize (0 = all)",
                        "name": "pageSize",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/timeentries.EntryList"
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "time-entries"
                ],
                "summary": "Record time",
                "parameters": [
                    {
                        "description": "Time entry payload",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/timeentries.CreateTimeEntryRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.CreatedResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ValidationErrorResponse"
                        }
                    }
                }
            }
        },
        "/time-entries/{id}": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "tags": [
                    "time-entries"
                ],
                "summary": "Delete time entry",
                "parameters": [
                    {
                        "description": "entry id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "time-entries"
                ],
                "summary": "Get time entry",
                "parameters": [
                    {
                        "description": "entry id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.TimeEntry"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "time-entries"
                ],
                "summary": "Update time entry",
                "parameters": [
                    {
                        "description": "entry id",
                        "name": "id",
                        "in": "path",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "description": "Fields to change",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/timeentries.UpdateTimeEntryRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.TimeEntry"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/models.ValidationErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/models.ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "auth.AuthResponse": {
            "type": "object",
            "properties": {
                "token": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "auth.LoginRequest": {
            "type": "object",
            "properties": {
                "password": {
                    "type": "string",
                    "maxLength": 72
                },
                "username": {
                    "type": "string",
                    "maxLength": 40
                }
            },
            "required": [
                "password",
                "username"
            ]
        },
        "auth.MeResponse": {
            "type": "object",
            "properties": {
                "username": {
                    "type": "string"
                }
            }
        },
        "auth.SignupRequest": {
            "type": "object",
            "properties": {
                "password": {
                    "type": "string",
                    "minLength": 6,
                    "maxLength": 72
                },
                "username": {
                    "type": "string"
                }
            },
            "required": [
                "password",
                "username"
            ]
        },
        "cases.ActivityRequest": {
            "type": "object",
            "properties": {
                "description": {
                    "type": "string",
                    "maxLength": 2000
                }
            },
            "required": [
                "description"
            ]
        },
        "cases.CaseListItem": {
            "type": "object",
            "properties": {
                "case_id": {
                    "type": "integer"
                },
                "case_name": {
                    "type": "string"
                },
                "case_type": {
                    "type": "string",
                    "enum": [
                        "مدني",
                        "جنائي",
                        "تجاري",
                        "إداري",
                        "أحوال شخصية",
                        "عقاري",
                        "عمالي",
                        "أخرى"
                    ]
                },
                "client_id": {
                    "type": "integer"
                },
                "client_name": {
                    "type": "string"
                },
                "court_date": {
                    "type": "string",
                    "format": "date",
                    "example": "2024-03-01"
                },
                "priority": {
                    "type": "string",
                    "enum": [
                        "منخفضة",
                        "متوسطة",
                        "عالية",
                        "عاجلة"
                    ]
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "نشطة",
                        "مغلقة",
                        "معلقة",
                        "مؤجلة",
                        "في الاستئناف",
                        "انتظار الحكم"
                    ]
                },
                "summary": {
                    "type": "string"
                }
            }
        },
        "cases.CreateCaseRequest": {
            "type": "object",
            "properties": {
                "case_description": {
                    "type": "string",
                    "maxLength": 5000
                },
                "case_name": {
                    "type": "string",
                    "maxLength": 160
                },
                "case_type": {
                    "type": "string"
                },
                "client_id": {
                    "type": "integer"
                },
                "court_date": {
                    "type": "string"
                },
                "notes": {
                    "type": "string",
                    "maxLength": 5000
                },
                "opposing_party": {
                    "type": "string",
                    "maxLength": 160
                },
                "priority": {
                    "type": "string"
                },
                "responsible_lawyer": {
                    "type": "string",
                    "maxLength": 120
                },
                "status": {
                    "type": "string"
                }
            },
            "required": [
                "case_name",
                "client_id"
            ]
        },
        "cases.UpdateCaseRequest": {
            "type": "object",
            "properties": {
                "case_description": {
                    "type": "string",
                    "maxLength": 5000
                },
                "case_name": {
                    "type": "string",
                    "maxLength": 160
                },
                "case_type": {
                    "type": "string"
                },
                "client_id": {
                    "type": "integer"
                },
                "court_date": {
                    "type": "string"
                },
                "notes": {
                    "type": "string",
                    "maxLength": 5000
                },
                "opposing_party": {
                    "type": "string",
                    "maxLength": 160
                },
                "priority": {
                    "type": "string"
                },
                "responsible_lawyer": {
                    "type": "string",
                    "maxLength": 120
                },
                "status": {
                    "type": "string"
                }
            }
        },
        "clients.ClientDetail": {
            "type": "object",
            "properties": {
                "address": {
                    "type": "string"
                },
                "cases": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Case"
                    }
                },
                "client_id": {
                    "type": "integer"
                },
                "company_name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "secondary_contact": {
                    "type": "string"
                },
                "type": {
                    "type": "string",
                    "enum": [
                        "فرد",
                        "شركة",
                        "مؤسسة"
                    ]
                }
            }
        },
        "clients.CreateClientRequest": {
            "type": "object",
            "properties": {
                "address": {
                    "type": "string",
                    "maxLength": 250
                },
                "company_name": {
                    "type": "string",
                    "maxLength": 120
                },
                "email": {
                    "type": "string",
                    "format": "email",
                    "maxLength": 120
                },
                "name": {
                    "type": "string",
                    "maxLength": 120
                },
                "notes": {
                    "type": "string",
                    "maxLength": 2000
                },
                "phone": {
                    "type": "string",
                    "maxLength": 30
                },
                "secondary_contact": {
                    "type": "string",
                    "maxLength": 120
                },
                "type": {
                    "type": "string"
                }
            },
            "required": [
                "name",
                "phone"
            ]
        },
        "clients.UpdateClientRequest": {
            "type": "object",
            "properties": {
                "address": {
                    "type": "string",
                    "maxLength": 250
                },
                "company_name": {
                    "type": "string",
                    "maxLength": 120
                },
                "email": {
                    "type": "string",
                    "format": "email",
                    "maxLength": 120
                },
                "name": {
                    "type": "string",
                    "maxLength": 120
                },
                "notes": {
                    "type": "string",
                    "maxLength": 2000
                },
                "phone": {
                    "type": "string",
                    "maxLength": 30
                },
                "secondary_contact": {
                    "type": "string",
                    "maxLength": 120
                },
                "type": {
                    "type": "string"
                }
            }
        },
        "contracts.PDFRequest": {
            "type": "object",
            "properties": {
                "contract_type": {
                    "type": "string"
                },
                "fields": {
                    "type": "object",
                    "additionalProperties": {}
                },
                "signature": {
                    "type": "string"
                },
                "stamp": {
                    "type": "string"
                }
            },
            "required": [
                "contract_type"
            ]
        },
        "contracts.RenderRequest": {
            "type": "object",
            "properties": {
                "contract_type": {
                    "type": "string"
                },
                "fields": {
                    "type": "object",
                    "additionalProperties": {}
                }
            },
            "required": [
                "contract_type"
            ]
        },
        "contracts.RenderResponse": {
            "type": "object",
            "properties": {
                "lines": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "title": {
                    "type": "string"
                }
            }
        },
        "contracts.ShareRequest": {
            "type": "object",
            "properties": {
                "contract_type": {
                    "type": "string"
                },
                "email": {
                    "type": "string",
                    "format": "email"
                },
                "fields": {
                    "type": "object",
                    "additionalProperties": {}
                },
                "signature": {
                    "type": "string"
                },
                "stamp": {
                    "type": "string"
                },
                "whatsapp": {
                    "type": "string",
                    "maxLength": 30
                }
            },
            "required": [
                "contract_type"
            ]
        },
        "contracts.ShareResponse": {
            "type": "object",
            "properties": {
                "emailed": {
                    "type": "boolean"
                },
                "whatsapp_url": {
                    "type": "string"
                }
            }
        },
        "contracts.TypeItem": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "label": {
                    "type": "string",
                    "enum": [
                        "عقد عمل",
                        "عقد إيجار",
                        "عقد وكالة",
                        "عقد بيع",
                        "عقد عدم إفشاء (NDA)"
                    ]
                }
            }
        },
        "invoices.CreateInvoiceRequest": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "number"
                },
                "case_id": {
                    "type": "integer"
                },
                "client_id": {
                    "type": "integer"
                },
                "date": {
                    "type": "string"
                },
                "due_date": {
                    "type": "string"
                },
                "paid": {
                    "type": "boolean"
                }
            },
            "required": [
                "amount",
                "client_id"
            ]
        },
        "invoices.InvoiceItem": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "number"
                },
                "case_id": {
                    "type": "integer"
                },
                "case_name": {
                    "type": "string"
                },
                "client_id": {
                    "type": "integer"
                },
                "client_name": {
                    "type": "string"
                },
                "date": {
                    "type": "string",
                    "format": "date",
                    "example": "2024-03-01"
                },
                "due_date": {
                    "type": "string",
                    "format": "date",
                    "example": "2024-03-01"
                },
                "invoice_id": {
                    "type": "integer"
                },
                "overdue": {
                    "type": "boolean"
                },
                "paid": {
                    "type": "boolean"
                }
            }
        },
        "invoices.PaidRequest": {
            "type": "object",
            "properties": {
                "paid": {
                    "type": "boolean"
                }
            }
        },
        "invoices.UpdateInvoiceRequest": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "number"
                },
                "case_id": {
                    "type": "integer"
                },
                "client_id": {
                    "type": "integer"
                },
                "date": {
                    "type": "string"
                },
                "due_date": {
                    "type": "string"
                },
                "paid": {
                    "type": "boolean"
                }
            }
        },
        "models.ActivityEntry": {
            "type": "object",
            "properties": {
                "description": {
                    "type": "string"
                },
                "timestamp": {
                    "type": "string"
                }
            }
        },
        "models.BlockedResponse": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string",
                    "example": "INTEGRITY_BLOCKED"
                },
                "dependents": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    },
                    "example": [
                        "cases",
                        "invoices"
                    ]
                },
                "error": {
                    "type": "boolean",
                    "example": true
                },
                "message": {
                    "type": "string",
                    "example": "client has dependent records"
                }
            }
        },
        "models.Case": {
            "type": "object",
            "properties": {
                "activity_log": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.ActivityEntry"
                    }
                },
                "case_description": {
                    "type": "string"
                },
                "case_id": {
                    "type": "integer"
                },
                "case_name": {
                    "type": "string"
                },
                "case_type": {
                    "type": "string",
                    "enum": [
                        "مدني",
                        "جنائي",
                        "تجاري",
                        "إداري",
                        "أحوال شخصية",
                        "عقاري",
                        "عمالي",
                        "أخرى"
                    ]
                },
                "client_id": {
                    "type": "integer"
                },
                "court_date": {
                    "type": "string",
                    "format": "date",
                    "example": "2024-03-01"
                },
                "notes": {
                    "type": "string"
                },
                "opposing_party": {
                    "type": "string"
                },
                "priority": {
                    "type": "string",
                    "enum": [
                        "منخفضة",
                        "متوسطة",
                        "عالية",
                        "عاجلة"
                    ]
                },
                "responsible_lawyer": {
                    "type": "string"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "نشطة",
                        "مغلقة",
                        "معلقة",
                        "مؤجلة",
                        "في الاستئناف",
                        "انتظار الحكم"
                    ]
                }
            }
        },
        "models.Client": {
            "type": "object",
            "properties": {
                "address": {
                    "type": "string"
                },
                "client_id": {
                    "type": "integer"
                },
                "company_name": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "notes": {
                    "type": "string"
                },
                "phone": {
                    "type": "string"
                },
                "secondary_contact": {
                    "type": "string"
                },
                "type": {
                    "type": "string",
                    "enum": [
                        "فرد",
                        "شركة",
                        "مؤسسة"
                    ]
                }
            }
        },
        "models.CreatedResponse": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "integer",
                    "example": 1
                }
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string",
                    "example": "FORBIDDEN"
                },
                "error": {
                    "type": "boolean",
                    "example": true
                },
                "message": {
                    "type": "string",
                    "example": "Forbidden"
                }
            }
        },
        "models.Invoice": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "number"
                },
                "case_id": {
                    "type": "integer"
                },
                "client_id": {
                    "type": "integer"
                },
                "date": {
                    "type": "string",
                    "format": "date",
                    "example": "2024-03-01"
                },
                "due_date": {
                    "type": "string",
                    "format": "date",
                    "example": "2024-03-01"
                },
                "invoice_id": {
                    "type": "integer"
                },
                "paid": {
                    "type": "boolean"
                }
            }
        },
        "models.TimeEntry": {
            "type": "object",
            "properties": {
                "case_id": {
                    "type": "integer"
                },
                "category": {
                    "type": "string",
                    "enum": [
                        "بحث قانوني",
                        "استشارة",
                        "إعداد مستندات",
                        "مرافعة",
                        "اجتماع",
                        "مراسلات",
                        "أخرى"
                    ]
                },
                "client_id": {
                    "type": "integer"
                },
                "date": {
                    "type": "string",
                    "format": "date",
                    "example": "2024-03-01"
                },
                "description": {
                    "type": "string"
                },
                "entry_id": {
                    "type": "integer"
                },
                "hours": {
                    "type": "number"
                }
            }
        },
        "models.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "errors": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "array",
                        "items": {
                            "type": "string"
                        }
                    }
                },
                "message": {
                    "type": "string",
                    "example": "Validation failed"
                }
            }
        },
        "reminders.CreateReminderRequest": {
            "type": "object",
            "properties": {
                "date": {
                    "type": "string"
                },
                "description": {
                    "type": "string",
                    "maxLength": 1000
                },
                "related_id": {
                    "type": "integer"
                },
                "related_type": {
                    "type": "string"
                }
            },
            "required": [
                "description"
            ]
        },
        "reminders.UpdateReminderRequest": {
            "type": "object",
            "properties": {
                "date": {
                    "type": "string"
                },
                "description": {
                    "type": "string",
                    "maxLength": 1000
                },
                "is_completed": {
                    "type": "boolean"
                },
                "related_id": {
                    "type": "integer"
                },
                "related_type": {
                    "type": "string"
                }
            }
        },
        "store.ReminderView": {
            "type": "object",
            "properties": {
                "date": {
                    "type": "string",
                    "format": "date",
                    "example": "2024-03-01"
                },
                "description": {
                    "type": "string"
                },
                "is_completed": {
                    "type": "boolean"
                },
                "related_id": {
                    "type": "integer"
                },
                "related_label": {
                    "type": "string"
                },
                "related_type": {
                    "type": "string",
                    "enum": [
                        "عميل",
                        "قضية",
                        "عام"
                    ]
                },
                "reminder_id": {
                    "type": "integer"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "مكتملة",
                        "قادمة",
                        "متأخرة"
                    ]
                }
            }
        },
        "store.Stats": {
            "type": "object",
            "properties": {
                "billable_hours": {
                    "type": "number"
                },
                "cases": {
                    "type": "integer"
                },
                "cases_by_status": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "integer"
                    }
                },
                "clients": {
                    "type": "integer"
                },
                "invoices_paid": {
                    "type": "integer"
                },
                "invoices_unpaid": {
                    "type": "integer"
                },
                "total_invoiced": {
                    "type": "number"
                },
                "total_paid": {
                    "type": "number"
                },
                "upcoming_reminders": {
                    "type": "integer"
                }
            }
        },
        "timeentries.CreateTimeEntryRequest": {
            "type": "object",
            "properties": {
                "case_id": {
                    "type": "integer"
                },
                "category": {
                    "type": "string"
                },
                "client_id": {
                    "type": "integer"
                },
                "date": {
                    "type": "string"
                },
                "description": {
                    "type": "string",
                    "maxLength": 2000
                },
                "hours": {
                    "type": "number",
                    "maximum": 24
                }
            },
            "required": [
                "client_id",
                "hours"
            ]
        },
        "timeentries.EntryList": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.TimeEntry"
                    }
                },
                "page": {
                    "type": "integer"
                },
                "pageSize": {
                    "type": "integer"
                },
                "pages": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                },
                "total_hours": {
                    "type": "number"
                }
            }
        },
        "timeentries.UpdateTimeEntryRequest": {
            "type": "object",
            "properties": {
                "case_id": {
                    "type": "integer"
                },
                "category": {
                    "type": "string"
                },
                "client_id": {
                    "type": "integer"
                },
                "date": {
                    "type": "string"
                },
                "description": {
                    "type": "string",
                    "maxLength": 2000
                },
                "hours": {
                    "type": "number",
                    "maximum": 24
                }
            }
        },
        "utils.Page-cases_CaseListItem": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/cases.CaseListItem"
                    }
                },
                "page": {
                    "type": "integer"
                },
                "pageSize": {
                    "type": "integer"
                },
                "pages": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "utils.Page-invoices_InvoiceItem": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/invoices.InvoiceItem"
                    }
                },
                "page": {
                    "type": "integer"
                },
                "pageSize": {
                    "type": "integer"
                },
                "pages": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "utils.Page-models_Client": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.Client"
                    }
                },
                "page": {
                    "type": "integer"
                },
                "pageSize": {
                    "type": "integer"
                },
                "pages": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "utils.Page-store_ReminderView": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/store.ReminderView"
                    }
                },
                "page": {
                    "type": "integer"
                },
                "pageSize": {
                    "type": "integer"
                },
                "pages": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Format: Bearer <token>",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "Mojaz Law Office API",
	Description:      "Back office for a small law firm: clients, cases, invoices, reminders, time tracking and generated contracts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
