package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/merabestie/sellerhub/internal/seller"
	"github.com/merabestie/sellerhub/internal/webserver"
)

type signupPayload struct {
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"emailId"`
	Password    string `json:"password"`
}

type loginPayload struct {
	SellerId     string `json:"sellerId"`
	EmailOrPhone string `json:"emailOrPhone"`
	Password     string `json:"password"`
}

type sellerIdPayload struct {
	SellerId string `json:"sellerId"`
}

func registerAuthRoutes() {
	webserver.ApiPOST("/admin/seller/signup", signup)
	webserver.ApiPOST("/admin/login", login)
	webserver.ApiPOST("/admin/logout", logout)
	webserver.ApiPOST("/admin/verify-seller", verifySeller)
	webserver.ApiGET("/admin/session", currentSeller)
}

func invalidBody(c echo.Context, err error) error {
	return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request body", err.Error())
}

// signup godoc
// @Summary Register a seller
// @Tags seller
// @Router /admin/seller/signup [post]
func signup(c echo.Context) error {
	var payload signupPayload
	if err := c.Bind(&payload); err != nil {
		return invalidBody(c, err)
	}
	s, err := GetAppContext(c).Sellers().Signup(c.Request().Context(), seller.SignupRequest{
		PhoneNumber: payload.PhoneNumber,
		Email:       payload.Email,
		Password:    payload.Password,
	})
	if err != nil {
		return failErr(c, err)
	}
	if err := bindSession(c, s.SellerId); err != nil {
		zap.L().Warn("session save failed", zap.String("namespace", "adminapi"), zap.Error(err))
	}
	audit(c, s.SellerId, "seller.signup", "seller registered")
	return ok(c, http.StatusCreated, "Seller registered successfully", H{"sellerId": s.SellerId})
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return invalidBody(c, err)
	}
	ctx := c.Request().Context()
	s, err := GetAppContext(c).Sellers().Login(ctx, payload.SellerId, payload.EmailOrPhone, payload.Password)
	if err != nil {
		return failErr(c, err)
	}
	if err := bindSession(c, s.SellerId); err != nil {
		// no cookie reached the client, so the login must not stick
		if _, lerr := GetAppContext(c).Sellers().Logout(ctx, s.SellerId); lerr != nil {
			zap.L().Error("login rollback failed", zap.String("namespace", "adminapi"),
				zap.String("sellerId", s.SellerId), zap.Error(lerr))
		}
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Error logging in", err.Error())
	}
	audit(c, s.SellerId, "seller.login", "seller logged in")
	return ok(c, http.StatusOK, "Login successful", H{"sellerId": s.SellerId})
}

func logout(c echo.Context) error {
	var payload sellerIdPayload
	if err := c.Bind(&payload); err != nil {
		return invalidBody(c, err)
	}
	s, err := GetAppContext(c).Sellers().Logout(c.Request().Context(), payload.SellerId)
	if err != nil {
		return failErr(c, err)
	}
	if err := destroySession(c); err != nil {
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Error logging out", err.Error())
	}
	audit(c, s.SellerId, "seller.logout", "seller logged out")
	return ok(c, http.StatusOK, "Seller logged out successfully", H{"loggedIn": s.LoggedIn})
}

func verifySeller(c echo.Context) error {
	var payload sellerIdPayload
	if err := c.Bind(&payload); err != nil {
		return invalidBody(c, err)
	}
	s, err := GetAppContext(c).Sellers().Status(c.Request().Context(), payload.SellerId)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, "Valid seller ID", H{
		"emailVerified": s.EmailVerified,
		"phoneVerified": s.PhoneVerified,
		"loggedIn":      s.LoggedIn,
	})
}

func currentSeller(c echo.Context) error {
	sellerId := sessionSellerId(c)
	if sellerId == "" {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "No active session", nil)
	}
	return ok(c, http.StatusOK, "", H{"sellerId": sellerId})
}
