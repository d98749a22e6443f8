package adminapi

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/merabestie/sellerhub/internal/app"
	"github.com/merabestie/sellerhub/internal/errx"
	"github.com/merabestie/sellerhub/internal/mailer"
	"github.com/merabestie/sellerhub/internal/webserver"
)

// H is a JSON object merged into a success body.
type H map[string]interface{}

// ok writes {"success": true, "message"?: message, ...fields}.
func ok(c echo.Context, status int, message string, fields H) error {
	body := make(map[string]interface{}, len(fields)+2)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	if message != "" {
		body["message"] = message
	}
	return c.JSON(status, body)
}

// fail writes the error body. details is omitted when empty.
func fail(c echo.Context, status int, code, message string, details interface{}) error {
	body := map[string]interface{}{
		"success": false,
		"code":    code,
		"message": message,
	}
	if s, isStr := details.(string); details != nil && (!isStr || s != "") {
		body["details"] = details
	}
	return c.JSON(status, body)
}

// failErr classifies err and writes it.
func failErr(c echo.Context, err error) error {
	e := errx.As(err)
	if e.Kind == errx.KindInternal || e.Kind == errx.KindTransport {
		zap.L().Error("request failed",
			zap.String("namespace", "adminapi"),
			zap.String("uri", c.Request().RequestURI),
			zap.String("code", e.Code),
			zap.Error(err))
	}
	return fail(c, e.Status(), e.Code, e.Message, e.Details)
}

func reportFields(r mailer.Report) H {
	return H{
		"totalUsers":           r.TotalUsers,
		"successfulEmails":     r.SuccessfulEmails,
		"failedEmails":         r.FailedEmails,
		"failedEmailAddresses": r.FailedEmailAddresses,
	}
}

func GetAppContext(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}

func GetDB(c echo.Context) *gorm.DB {
	return GetAppContext(c).DB().WithContext(c.Request().Context())
}

// audit records an operator action. actor falls back to the session seller.
func audit(c echo.Context, actor, action, desc string) {
	if actor == "" {
		actor = sessionSellerId(c)
	}
	GetAppContext(c).Audit(app.AuditEvent{
		Actor:  actor,
		Ip:     c.RealIP(),
		Action: action,
		Desc:   desc,
	})
}
