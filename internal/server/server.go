package server

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/surplusmkt/surplus/internal/database"
	"github.com/surplusmkt/surplus/internal/model"
	"github.com/surplusmkt/surplus/internal/pubsub"
	"github.com/surplusmkt/surplus/internal/server/middlewares"
	"github.com/surplusmkt/surplus/internal/server/service"
	"github.com/surplusmkt/surplus/internal/server/session"
)

// A Controller is an Inversion Of Control pattern used to init the server package.
type Controller struct {
	Version        string
	Database       database.Client
	Broker         *pubsub.Broker
	Publisher      pubsub.Publisher
	Logger         logrus.FieldLogger
	NoRegistration bool
	// Token params
	SigningKey []byte
	// Session params
	AccessTokenExpirationTime  time.Duration
	RefreshTokenExpirationTime time.Duration
}

// EchoEngine instantiates the web server.
func EchoEngine(ctrl Controller) *echo.Echo {
	if ctrl.Logger == nil {
		ctrl.Logger = logrus.StandardLogger()
	}
	if ctrl.Publisher == nil {
		ctrl.Publisher = ctrl.Broker
	}

	engine := echo.New()
	engine.HideBanner = true
	engine.Use(middleware.Recover())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))
	engine.Use(middleware.Gzip())

	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${status}] ${method} ${uri} (${bytes_in}) ${latency_human}\n",
	}))
	engine.Binder = middlewares.NewBinder()
	// Error handler
	engine.HTTPErrorHandler = middlewares.HTTPErrorHandler(ctrl.Logger)

	engine.Pre(middleware.Rewrite(map[string]string{
		"/": "/version",
	}))

	////////////
	// Router //
	////////////

	sessions := session.NewManager(
		ctrl.Database,
		ctrl.SigningKey,
		ctrl.AccessTokenExpirationTime,
		ctrl.RefreshTokenExpirationTime,
	)

	router := engine.Group("")
	restricted := router.Group("")
	restricted.Use(middlewares.Session(sessions))

	//
	// generic handlers
	//
	router.GET("/version", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"version": ctrl.Version,
		})
	})

	//
	// auth handlers
	//
	auth := &auth{
		db:       ctrl.Database,
		sessions: sessions,
	}
	if !ctrl.NoRegistration {
		router.POST("/auth", auth.Register)
	}
	router.POST("/auth/sign_in", auth.Login)
	router.POST("/session/refresh", auth.Refresh)
	restricted.DELETE("/auth/sign_out", auth.Logout)

	//
	// profile handlers
	//
	profile := &profile{
		db: ctrl.Database,
	}
	restricted.GET("/profile", profile.Show)
	restricted.PATCH("/profile", profile.Update)

	//
	// item handlers
	//
	item := &item{
		db:      ctrl.Database,
		broker:  ctrl.Broker,
		service: service.NewItem(ctrl.Database, ctrl.Publisher, ctrl.Logger),
	}
	restricted.GET("/items", item.List)
	restricted.POST("/items", item.Create)
	restricted.GET("/items/stream", item.Stream)
	restricted.DELETE("/items/:id", item.Delete)

	return engine
}

// PrintRoutes prints the Echo engine exposed routes.
func PrintRoutes(e *echo.Echo) {
	ignored := map[string]bool{
		"":   true,
		".":  true,
		"/*": true,
	}

	routes := e.Routes()
	sort.Slice(routes, func(i int, j int) bool {
		return routes[i].Path < routes[j].Path
	})

	fmt.Println("Routes:")
	for _, route := range routes {
		if ignored[route.Path] {
			continue
		}
		fmt.Printf("%6s %s\n", route.Method, route.Path)
	}
}

func currentUser(c echo.Context) *model.User {
	user, ok := c.Get(middlewares.CurrentUserContextKey).(*model.User)
	if ok {
		return user
	}
	return nil
}

func currentSession(c echo.Context) *model.Session {
	session, ok := c.Get(middlewares.CurrentSessionContextKey).(*model.Session)
	if ok {
		return session
	}
	return nil
}
