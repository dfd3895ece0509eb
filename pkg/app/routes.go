package app

// initDefaultRoutes initializes the applications default routes.
//  These are the routes which always are the same in every application.
//  Things like version, health, ...
func (app *App) initDefaultRoutes() {
	api := app.web.Group("/")
	if app.config.Webserver.Webservices["version"] {
		api.Get("/version", app.HandleVersion())
	}
	if app.config.Webserver.Webservices["health"] {
		api.Get("/health", app.HandleHealth())
	}
	if app.config.Webserver.Webservices["status"] {
		api.Get("/status", app.HandleStatus())
	}
	if app.config.Webserver.Webservices["register"] {
		api.Get("/register/:offset", app.HandleRegisterRead())
		api.Post("/register/:offset", app.HandleRegisterWrite())
	}
}
