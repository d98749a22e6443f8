package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/merabestie/sellerhub/internal/domain"
	"github.com/merabestie/sellerhub/internal/webserver"
)

const auditPageSize = 200

func registerAuditRoutes() {
	webserver.ApiGET("/admin/audit", listAudit, RequireSession)
}

func listAudit(c echo.Context) error {
	list, err := GetAppContext(c).RecentAudit(auditPageSize)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operation log", err.Error())
	}
	if list == nil {
		list = []domain.OperationLog{}
	}
	return ok(c, http.StatusOK, "", H{"logs": list})
}
