package mailer

import (
	"fmt"
	"strconv"
)

// Templates renders the fixed notification mails. Brand is the signature line.
type Templates struct {
	Brand string
}

func (t Templates) OTP(to, otp string) Message {
	return Message{
		To:      to,
		Subject: "Account Verification OTP",
		Text: fmt.Sprintf("Your OTP for account verification is: %s. "+
			"Please use this OTP to verify both your email and phone number.", otp),
		HTML: fmt.Sprintf(`<h1>Account Verification OTP</h1>
<p>Your OTP for account verification is: <strong>%s</strong></p>
<p>Please use this OTP to verify both your email and phone number.</p>`, otp),
	}
}

func (t Templates) Coupon(to, code string, discount float64) Message {
	return Message{
		To:      to,
		Subject: "🎉 Special Discount Coupon Just for You!",
		Text: fmt.Sprintf(`Hello valued customer!

We're excited to offer you a special discount on your next purchase!

Your Coupon Code: %s
Discount: %s%% off

How to use your coupon:
1. Add items to your cart
2. Enter the coupon code at checkout
3. Enjoy your savings!

This is our way of saying thank you for being a part of our community.

Happy Shopping!
Best regards,
The %s Team
`, code, FormatPercent(discount), t.Brand),
	}
}

func (t Templates) CouponExpired(to, code string, discount float64) Message {
	return Message{
		To:      to,
		Subject: "Coupon Expired",
		Text:    fmt.Sprintf("The coupon %s with %s%% discount has expired.", code, FormatPercent(discount)),
	}
}

// FormatPercent prints 10 as "10" and 12.5 as "12.5".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
