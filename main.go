package main

import (
	_ "vcePortalApi/docs"

	"vcePortalApi/cmd"
)

// @title VCE Portal API
// @version 1.0
// @description API that talks to the VCE student ERP (captcha login, dashboard, attendance planning).
// @host localhost:8000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Use "Bearer {session_id}"
func main() {
	cmd.Execute()
}
