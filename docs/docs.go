// Package docs registra a especificação OpenAPI da API da Vitrine.
// Regerar com: swag init -g cmd/main.go -o docs
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
        "/register": {"post": {"tags": ["users"], "summary": "Registra um novo usuário", "parameters": [{"in": "body", "name": "registration", "required": true, "schema": {"$ref": "#/definitions/domain.UserRegistration"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.User"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}}}},
        "/login": {"post": {"tags": ["users"], "summary": "Autentica um usuário e retorna um JWT", "parameters": [{"in": "body", "name": "login", "required": true, "schema": {"$ref": "#/definitions/user.LoginRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/user.LoginResponse"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}}}},
        "/products": {"get": {"tags": ["catalog"], "summary": "Lista os produtos da vitrine", "parameters": [{"type": "string", "in": "query", "name": "category"}, {"type": "string", "in": "query", "name": "q"}], "responses": {"200": {"description": "OK"}}}},
        "/products/{id}": {"get": {"tags": ["catalog"], "summary": "Busca um produto pelo ID (slug)", "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}}}},
        "/categories": {"get": {"tags": ["catalog"], "summary": "Lista as categorias", "responses": {"200": {"description": "OK"}}}},
        "/settings": {"get": {"tags": ["settings"], "summary": "Configurações públicas da loja", "responses": {"200": {"description": "OK"}}}},
        "/cart": {"get": {"tags": ["cart"], "summary": "Retorna o carrinho da sessão", "responses": {"200": {"description": "OK"}}}, "delete": {"tags": ["cart"], "summary": "Esvazia o carrinho", "responses": {"204": {"description": "No Content"}}}},
        "/cart/items": {"post": {"tags": ["cart"], "summary": "Adiciona uma unidade de um produto ao carrinho", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}}}},
        "/cart/items/{productID}": {"patch": {"tags": ["cart"], "summary": "Define a quantidade de uma linha do carrinho", "responses": {"200": {"description": "OK"}}}, "delete": {"tags": ["cart"], "summary": "Remove uma linha do carrinho", "responses": {"200": {"description": "OK"}}}},
        "/favorites": {"get": {"tags": ["favorites"], "summary": "Lista os favoritos da sessão", "responses": {"200": {"description": "OK"}}}},
        "/favorites/{productID}": {"post": {"tags": ["favorites"], "summary": "Marca ou desmarca um favorito", "responses": {"200": {"description": "OK"}}}},
        "/checkout": {"post": {"tags": ["checkout"], "summary": "Finaliza a compra", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}, "409": {"description": "Estoque insuficiente", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}}}},
        "/account/orders": {"get": {"security": [{"BearerAuth": []}], "tags": ["account"], "summary": "Pedidos do usuário autenticado", "responses": {"200": {"description": "OK"}}}},
        "/admin/orders": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Lista pedidos, mais recentes primeiro", "responses": {"200": {"description": "OK"}}}},
        "/admin/orders/{id}/advance": {"post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Avança o pedido para o próximo status", "responses": {"200": {"description": "OK"}}}},
        "/admin/orders/{id}/status": {"put": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Define o status do pedido (apenas para frente)", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}}
    },
    "definitions": {
        "domain.ErrorResponse": {"type": "object", "properties": {"code": {"type": "integer", "example": 400}, "category": {"type": "string", "example": "VALIDATION_ERROR"}, "message": {"type": "string"}, "shortfalls": {"type": "array", "items": {"type": "object"}}}},
        "domain.User": {"type": "object", "properties": {"id": {"type": "string"}, "email": {"type": "string"}, "role": {"type": "string"}, "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "domain.UserRegistration": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "user.LoginRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "user.LoginResponse": {"type": "object", "properties": {"token": {"type": "string"}, "expires_in": {"type": "integer"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo guarda as informações exportadas da especificação.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Vitrine API",
	Description:      "API da loja de roupas: catálogo, carrinho, checkout via WhatsApp e gestão de pedidos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
