package docs

import "github.com/swaggo/swag"

// @title           Bingo Builder API
// @version         1.0
// @description     API for creating, arranging and sharing 5x5 bingo boards

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token

// @tag.name Users
// @tag.description Registration, login and session operations

// @tag.name Boards
// @tag.description Board management operations

// @tag.name Squares
// @tag.description Grid ordering and content operations

// @tag.name Images
// @tag.description Header, footer and center image uploads

// @tag.name Sharing
// @tag.description Public viewing and share links

// Register swagger info
func SwaggerInfo() *swag.Spec {
	spec, _ := swag.GetSwagger(swag.Name).(*swag.Spec)
	return spec
}
