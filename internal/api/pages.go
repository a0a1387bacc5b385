package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// pageData is passed to every page template.
type pageData struct {
	Title      string
	ActivePage string
	HideNav    bool
}

// registerPageRoutes registers the server rendered pages. Pages are public;
// the browser script sends the stored token with its API calls.
func (s *Server) registerPageRoutes() {
	s.echo.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusTemporaryRedirect, "/dashboard")
	})
	s.echo.GET("/dashboard", s.page("dashboard.html", pageData{Title: "Dashboard", ActivePage: "home"}))
	s.echo.GET("/login", s.page("login.html", pageData{Title: "Login", HideNav: true}))
	s.echo.GET("/closet-view", s.page("closet.html", pageData{Title: "My Closet", ActivePage: "closet"}))
}

func (s *Server) page(name string, data pageData) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, name, data)
	}
}
