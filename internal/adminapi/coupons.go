package adminapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/merabestie/sellerhub/internal/mailer"
	"github.com/merabestie/sellerhub/internal/webserver"
)

// couponPayload accepts the discount as a number or a numeric string.
type couponPayload struct {
	Code               string      `json:"code"`
	DiscountPercentage interface{} `json:"discountPercentage"`
}

func (p couponPayload) discount() (float64, error) {
	if p.DiscountPercentage == nil {
		return 0, nil
	}
	return cast.ToFloat64E(p.DiscountPercentage)
}

func registerCouponRoutes() {
	webserver.ApiPOST("/save-coupon", saveCoupon, RequireSession)
	webserver.ApiGET("/get-coupon", listCoupons)
	webserver.ApiPOST("/verify-coupon", verifyCoupon)
	webserver.ApiDELETE("/delete-coupon", deleteCoupon, RequireSession)
}

func saveCoupon(c echo.Context) error {
	var payload couponPayload
	if err := c.Bind(&payload); err != nil {
		return invalidBody(c, err)
	}
	d, err := payload.discount()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DISCOUNT", "Invalid discount percentage", err.Error())
	}

	res, err := GetAppContext(c).Coupons().Save(c.Request().Context(), payload.Code, d)
	if err != nil {
		return failErr(c, err)
	}
	audit(c, "", "coupon.create", describeCoupon(res.Coupon.Code, d, res.Report))
	fields := reportFields(res.Report)
	fields["coupon"] = res.Coupon
	return ok(c, http.StatusOK, "Coupon saved and notifications sent", fields)
}

func listCoupons(c echo.Context) error {
	list, err := GetAppContext(c).Coupons().List(c.Request().Context())
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, "", H{"coupons": list})
}

func verifyCoupon(c echo.Context) error {
	var payload couponPayload
	if err := c.Bind(&payload); err != nil {
		return invalidBody(c, err)
	}
	cp, err := GetAppContext(c).Coupons().Verify(c.Request().Context(), payload.Code)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, "", H{"discountPercentage": cp.DiscountPercentage})
}

func deleteCoupon(c echo.Context) error {
	var payload couponPayload
	if err := c.Bind(&payload); err != nil {
		return invalidBody(c, err)
	}
	d, err := payload.discount()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_DISCOUNT", "Invalid discount percentage", err.Error())
	}

	res, err := GetAppContext(c).Coupons().Delete(c.Request().Context(), payload.Code, d)
	if err != nil {
		return failErr(c, err)
	}
	audit(c, "", "coupon.delete", describeCoupon(res.Coupon.Code, d, res.Report))
	return ok(c, http.StatusOK, "Coupon deleted successfully", reportFields(res.Report))
}

func describeCoupon(code string, discount float64, r mailer.Report) string {
	return fmt.Sprintf("%s (%s%%) notified %d/%d customers",
		code, mailer.FormatPercent(discount), r.SuccessfulEmails, r.TotalUsers)
}
