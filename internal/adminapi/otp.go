package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/merabestie/sellerhub/internal/seller"
	"github.com/merabestie/sellerhub/internal/webserver"
)

type otpPayload struct {
	SellerId string `json:"sellerId"`
	Otp      string `json:"otp"`
}

func registerOtpRoutes() {
	webserver.ApiPOST("/admin/send-otp", sendOtp)
	webserver.ApiPOST("/admin/verify-otp", verifyChannel(seller.ChannelEmail, "Email verified successfully"))
	webserver.ApiPOST("/admin/verify-phone", verifyChannel(seller.ChannelPhone, "Phone number verified successfully"))
}

func sendOtp(c echo.Context) error {
	var payload sellerIdPayload
	if err := c.Bind(&payload); err != nil {
		return invalidBody(c, err)
	}
	if err := GetAppContext(c).Sellers().SendOTP(c.Request().Context(), payload.SellerId); err != nil {
		return failErr(c, err)
	}
	return ok(c, http.StatusOK, "OTP sent successfully to email", nil)
}

// verifyChannel builds the handler confirming one contact channel.
func verifyChannel(ch seller.Channel, message string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var payload otpPayload
		if err := c.Bind(&payload); err != nil {
			return invalidBody(c, err)
		}
		s, err := GetAppContext(c).Sellers().Verify(c.Request().Context(), payload.SellerId, payload.Otp, ch)
		if err != nil {
			return failErr(c, err)
		}
		audit(c, s.SellerId, "seller.verify."+string(ch), message)
		return ok(c, http.StatusOK, message, H{
			"emailVerified": s.EmailVerified,
			"phoneVerified": s.PhoneVerified,
		})
	}
}
