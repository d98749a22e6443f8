package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/merabestie/sellerhub/internal/domain"
	"github.com/merabestie/sellerhub/internal/webserver"
	"github.com/merabestie/sellerhub/pkg/common"
)

type customerPayload struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email,max=255"`
}

func registerCustomerRoutes() {
	webserver.ApiGET("/admin/customers", listCustomers, RequireSession)
	webserver.ApiPOST("/admin/customers", createCustomer, RequireSession)
	webserver.ApiDELETE("/admin/customers/:id", deleteCustomer, RequireSession)
}

func listCustomers(c echo.Context) error {
	var list []domain.Customer
	if err := GetDB(c).Order("created_at ASC").Find(&list).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	if list == nil {
		list = []domain.Customer{}
	}
	return ok(c, http.StatusOK, "", H{"customers": list})
}

func createCustomer(c echo.Context) error {
	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return invalidBody(c, err)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid customer", err.Error())
	}

	var exists int64
	err := GetDB(c).Model(&domain.Customer{}).Where("email = ?", payload.Email).Count(&exists).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	if exists > 0 {
		return fail(c, http.StatusBadRequest, "CUSTOMER_EXISTS", "Customer already exists", payload.Email)
	}

	now := time.Now()
	cu := domain.Customer{
		ID:        common.UUIDint64(),
		Name:      payload.Name,
		Email:     payload.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetDB(c).Create(&cu).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create customer", err.Error())
	}
	audit(c, "", "customer.create", cu.Email)
	return ok(c, http.StatusCreated, "Customer registered", H{"customer": cu})
}

func deleteCustomer(c echo.Context) error {
	id, err := cast.ToInt64E(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	res := GetDB(c).Delete(&domain.Customer{}, id)
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete customer", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	}
	audit(c, "", "customer.delete", c.Param("id"))
	return ok(c, http.StatusOK, "Customer removed", H{"id": c.Param("id")})
}
