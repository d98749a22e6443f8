package webserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/merabestie/sellerhub/config"
	_ "github.com/merabestie/sellerhub/docs"
	"github.com/merabestie/sellerhub/internal/app"
)

const appContextKey = "app_context"

// AdminServer is the HTTP front of the back office.
type AdminServer struct {
	root   *echo.Echo
	appCtx app.AppContext
}

// NewAdminServer builds the echo instance and mounts every registered route.
func NewAdminServer(appCtx app.AppContext) (*AdminServer, error) {
	cfg := appCtx.Config()
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}
	e.Validator = NewValidator()
	e.HTTPErrorHandler = errorHandler

	store, err := newSessionStore(cfg)
	if err != nil {
		return nil, err
	}

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			zap.L().Error("panic recovered",
				zap.String("namespace", "webserver"),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.ByteString("stack", stack))
			return err
		},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("namespace", "http"),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				zap.L().Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			zap.L().Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Web.AllowOrigins,
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit(strconv.FormatInt(cfg.MaxUploadBytes(), 10)))
	e.Use(session.Middleware(store))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appContextKey, appCtx)
			return next(c)
		}
	})

	e.GET("/healthz", healthz)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	mountRoutes(e.Group(cfg.Web.ApiPrefix))
	return &AdminServer{root: e, appCtx: appCtx}, nil
}

func newSessionStore(cfg *config.AppConfig) (sessions.Store, error) {
	opts := &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.Session.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	secret := []byte(cfg.Web.Secret)
	switch cfg.Session.Store {
	case "cookie":
		s := sessions.NewCookieStore(secret)
		s.Options = opts
		return s, nil
	case "filesystem", "":
		if err := cfg.InitDirs(); err != nil {
			return nil, err
		}
		s := sessions.NewFilesystemStore(cfg.GetSessionDir(), secret)
		s.Options = opts
		return s, nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

func healthz(c echo.Context) error {
	status := "ok"
	code := http.StatusOK
	sqlDB, err := GetAppContext(c).DB().DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		status = "database unavailable"
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, map[string]interface{}{"success": err == nil, "status": status})
}

// errorHandler renders framework errors in the API's error shape.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	body := map[string]interface{}{
		"success": false,
		"code":    errorCode(code),
		"message": msg,
	}
	if code == http.StatusInternalServerError {
		zap.L().Error("unhandled error", zap.String("namespace", "webserver"), zap.Error(err))
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		zap.L().Error("write error response", zap.String("namespace", "webserver"), zap.Error(err))
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	default:
		return "INTERNAL_ERROR"
	}
}

// GetAppContext returns the application attached by the server middleware.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(appContextKey).(app.AppContext)
}

// Echo exposes the router, mainly for httptest.
func (s *AdminServer) Echo() *echo.Echo {
	return s.root
}

// Start listens on web.host:web.port until Shutdown.
func (s *AdminServer) Start() error {
	cfg := s.appCtx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("Prepare to start the admin server %s", addr)
	s.root.Server.ReadHeaderTimeout = 10 * time.Second
	err := s.root.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *AdminServer) Shutdown(ctx context.Context) error {
	return s.root.Shutdown(ctx)
}
