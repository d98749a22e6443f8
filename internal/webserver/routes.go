package webserver

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
)

type apiRoute struct {
	method     string
	path       string
	handler    echo.HandlerFunc
	middleware []echo.MiddlewareFunc
}

var (
	routesMu sync.Mutex
	routes   []apiRoute
)

func addRoute(method, path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	routesMu.Lock()
	defer routesMu.Unlock()
	routes = append(routes, apiRoute{method: method, path: path, handler: h, middleware: m})
}

// ApiGET registers a GET route under the API prefix.
func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	addRoute(http.MethodGet, path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	addRoute(http.MethodPost, path, h, m...)
}

func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	addRoute(http.MethodPut, path, h, m...)
}

func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	addRoute(http.MethodDelete, path, h, m...)
}

func mountRoutes(g *echo.Group) {
	routesMu.Lock()
	defer routesMu.Unlock()
	for _, r := range routes {
		g.Add(r.method, r.path, r.handler, r.middleware...)
	}
}
