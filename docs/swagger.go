// Package docs Noteful API
//
// @title  Noteful API
// @version 1.0.0
// @description CRUD for notes, folders and tags, with user sign-up and a live event stream.
// @host      localhost:8080
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package docs

import (
	_ "noteful/cmd/server/handlers/httperr"
	_ "noteful/internal/services/folders"
	_ "noteful/internal/services/notes"
	_ "noteful/internal/services/tags"
	_ "noteful/internal/services/users"
)
