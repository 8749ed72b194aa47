package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	bidHandler     bidHandler
	sprintHandler  sprintHandler
	reviewHandler  reviewHandler
}
