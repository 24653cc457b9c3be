// Package docs 注册 swagger 文档。
//
// 以 handler 注释为准，通过 cmd/server 中的 go:generate（swag init）重新生成；
// api 包的测试会校验每条 /api/v1 路由都已收录。
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
        "/api/v1/posts": {
            "get": {"tags": ["帖子"], "summary": "全部帖子", "parameters": [{"type": "integer", "default": 1, "name": "page", "in": "query"}], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["帖子"], "summary": "发布帖子", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/posts/{id}": {
            "get": {"tags": ["帖子"], "summary": "帖子详情（含评论与作者帖子数）", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["帖子"], "summary": "编辑帖子", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "303": {"description": "非作者，跳转至详情"}, "400": {"description": "Bad Request"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["帖子"], "summary": "删除帖子", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/api/v1/posts/{id}/comments": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["帖子"], "summary": "发表评论", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}}}
        },
        "/api/v1/groups": {
            "get": {"tags": ["分组"], "summary": "分组列表", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["分组"], "summary": "创建分组", "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}}}
        },
        "/api/v1/groups/{slug}/posts": {
            "get": {"tags": ["帖子"], "summary": "分组帖子", "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}, {"type": "integer", "default": 1, "name": "page", "in": "query"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/profiles/{username}/posts": {
            "get": {"tags": ["帖子"], "summary": "作者帖子", "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}, {"type": "integer", "default": 1, "name": "page", "in": "query"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/profiles/{username}/follow": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["关系链"], "summary": "关注作者", "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/profiles/{username}/unfollow": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["关系链"], "summary": "取消关注", "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/profiles/{username}/followers": {
            "get": {"tags": ["关系链"], "summary": "查询粉丝列表（来自冗余表）", "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}, {"type": "integer", "default": 1, "name": "page", "in": "query"}, {"type": "integer", "default": 10, "description": "每页数量（上限 100）", "name": "page_size", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/profiles/{username}/following": {
            "get": {"tags": ["关系链"], "summary": "查询关注列表", "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}, {"type": "integer", "default": 1, "name": "page", "in": "query"}, {"type": "integer", "default": 10, "description": "每页数量（上限 100）", "name": "page_size", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/follow/posts": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["帖子"], "summary": "关注作者的帖子", "parameters": [{"type": "integer", "default": 1, "name": "page", "in": "query"}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/auth/register": {
            "post": {"tags": ["账号"], "summary": "注册账号", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/auth/login": {
            "post": {"tags": ["账号"], "summary": "登录", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/admin/cache/invalidate": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["管理"], "summary": "清空首页缓存", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Yatube Feed API",
	Description:      "帖子列表、分组、作者主页与关注流",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
