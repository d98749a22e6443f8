package adminapi

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const sessionSellerKey = "sellerId"

func currentSession(c echo.Context) (*sessions.Session, error) {
	return session.Get(GetAppContext(c).Config().Session.Name, c)
}

func sessionSellerId(c echo.Context) string {
	sess, err := currentSession(c)
	if err != nil {
		return ""
	}
	id, _ := sess.Values[sessionSellerKey].(string)
	return id
}

// bindSession stores sellerId in the session and writes the cookie.
func bindSession(c echo.Context, sellerId string) error {
	sess, err := currentSession(c)
	if sess == nil {
		return err
	}
	if err != nil {
		// a stale or foreign cookie still yields a fresh session
		zap.L().Debug("session decode failed", zap.String("namespace", "adminapi"), zap.Error(err))
	}
	sess.Values[sessionSellerKey] = sellerId
	return sess.Save(c.Request(), c.Response())
}

// destroySession removes the stored session and expires the cookie.
func destroySession(c echo.Context) error {
	sess, err := currentSession(c)
	if sess == nil {
		return err
	}
	opts := *sess.Options
	opts.MaxAge = -1
	if sess.IsNew {
		// nothing stored server side, only the cookie needs expiring
		http.SetCookie(c.Response(), sessions.NewCookie(sess.Name(), "", &opts))
		return nil
	}
	sess.Options = &opts
	sess.Values = map[interface{}]interface{}{}
	return sess.Save(c.Request(), c.Response())
}

// RequireSession rejects the request unless the session belongs to a seller
// who is logged in. It is a no-op when web.require_session is off.
func RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		appCtx := GetAppContext(c)
		if !appCtx.Config().Web.RequireSession {
			return next(c)
		}
		sellerId := sessionSellerId(c)
		if sellerId == "" {
			return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Login required", nil)
		}
		loggedIn, err := appCtx.Sellers().IsLoggedIn(c.Request().Context(), sellerId)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to check session", err.Error())
		}
		if !loggedIn {
			return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Login required", nil)
		}
		return next(c)
	}
}
