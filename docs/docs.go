// Package docs registers the OpenAPI description served under /swagger.
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
        "/admin/seller/signup": {"post": {"tags": ["seller"], "summary": "Register a seller", "consumes": ["application/json"], "responses": {"201": {"description": "Created"}, "400": {"description": "Missing fields or seller exists"}}}},
        "/admin/login": {"post": {"tags": ["seller"], "summary": "Log a seller in", "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid credentials"}, "401": {"description": "Account not verified"}}}},
        "/admin/send-otp": {"post": {"tags": ["seller"], "summary": "Email a verification code", "responses": {"200": {"description": "OK"}, "404": {"description": "Seller not found"}, "500": {"description": "Email sending failed"}}}},
        "/admin/verify-otp": {"post": {"tags": ["seller"], "summary": "Confirm the email channel", "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid OTP"}}}},
        "/admin/verify-phone": {"post": {"tags": ["seller"], "summary": "Confirm the phone channel", "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid OTP"}}}},
        "/admin/verify-seller": {"post": {"tags": ["seller"], "summary": "Read verification and login state", "responses": {"200": {"description": "OK"}, "404": {"description": "Invalid seller ID"}}}},
        "/admin/logout": {"post": {"tags": ["seller"], "summary": "Log out and destroy the session", "responses": {"200": {"description": "OK"}}}},
        "/admin/session": {"get": {"tags": ["seller"], "summary": "Seller bound to the current session", "responses": {"200": {"description": "OK"}, "401": {"description": "No session"}}}},
        "/save-coupon": {"post": {"tags": ["coupon"], "summary": "Create a coupon and mail every customer", "responses": {"200": {"description": "Saved with broadcast report"}, "400": {"description": "Invalid or duplicate coupon"}}}},
        "/get-coupon": {"get": {"tags": ["coupon"], "summary": "List coupons", "responses": {"200": {"description": "OK"}}}},
        "/verify-coupon": {"post": {"tags": ["coupon"], "summary": "Look up a coupon", "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/delete-coupon": {"delete": {"tags": ["coupon"], "summary": "Delete a coupon and announce its expiry", "responses": {"200": {"description": "Deleted with broadcast report"}, "404": {"description": "Not found"}}}},
        "/add-product": {"post": {"tags": ["product"], "summary": "Create a product with up to five images", "consumes": ["multipart/form-data"], "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid product"}}}},
        "/get-product": {"get": {"tags": ["product"], "summary": "List products", "parameters": [{"type": "string", "name": "q", "in": "query"}, {"type": "string", "name": "category", "in": "query"}, {"type": "string", "name": "visibility", "in": "query"}, {"type": "string", "name": "sort", "in": "query"}, {"type": "string", "name": "order", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/product/{id}": {"get": {"tags": ["product"], "summary": "Get one product", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/product/{id}/images/{index}": {"get": {"tags": ["product"], "summary": "Raw image bytes", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "integer", "name": "index", "in": "path", "required": true}], "responses": {"200": {"description": "Image"}, "404": {"description": "Not found"}}}},
        "/instock-update": {"put": {"tags": ["product"], "summary": "Update product details and stock", "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/update-visibility": {"put": {"tags": ["product"], "summary": "Show or hide a product", "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/delete-product/{id}": {"delete": {"tags": ["product"], "summary": "Delete a product", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/export-products": {"get": {"tags": ["product"], "summary": "Export the catalog", "produces": ["text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "parameters": [{"type": "string", "name": "format", "in": "query", "enum": ["csv", "xlsx"]}], "responses": {"200": {"description": "File"}}}},
        "/admin/customers": {"get": {"tags": ["customer"], "summary": "List customers", "responses": {"200": {"description": "OK"}}}, "post": {"tags": ["customer"], "summary": "Register a customer", "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid or duplicate"}}}},
        "/admin/customers/{id}": {"delete": {"tags": ["customer"], "summary": "Remove a customer", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}},
        "/admin/audit": {"get": {"tags": ["audit"], "summary": "Latest operation log entries", "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Sellerhub Admin API",
	Description:      "Seller identity, catalog and coupon back office.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
