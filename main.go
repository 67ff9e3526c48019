package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/vietanh2810/school-portal-api/cmd/app"
)

// @title          School Portal API
// @version        1.0
// @description    Public site and admin API for a secondary school: results, scratch cards, admissions and news.
// @BasePath       /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
