package adminapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merabestie/sellerhub/config"
	"github.com/merabestie/sellerhub/internal/adminapi"
	"github.com/merabestie/sellerhub/internal/app/apptest"
	"github.com/merabestie/sellerhub/internal/domain"
	"github.com/merabestie/sellerhub/internal/webserver"
)

var otpPattern = regexp.MustCompile(`\b(\d{6})\b`)

type client struct {
	t       *testing.T
	env     *apptest.Env
	e       *echo.Echo
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, mutate func(cfg *config.AppConfig)) *client {
	env := apptest.New(t, mutate)
	adminapi.Init()
	srv, err := webserver.NewAdminServer(env.App)
	require.NoError(t, err)
	return &client{t: t, env: env, e: srv.Echo(), cookies: map[string]*http.Cookie{}}
}

func (cl *client) send(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range cl.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	cl.e.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(cl.cookies, ck.Name)
			continue
		}
		cl.cookies[ck.Name] = ck
	}
	return rec
}

func (cl *client) json(method, path string, body interface{}) (int, map[string]interface{}) {
	cl.t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(cl.t, err)
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := cl.send(req)
	out := map[string]interface{}{}
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(cl.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

type upload struct {
	name        string
	contentType string
	data        []byte
}

func (cl *client) multipart(path string, fields map[string]string, files []upload) (int, map[string]interface{}) {
	cl.t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(cl.t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="images"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(cl.t, err)
		_, err = part.Write(f.data)
		require.NoError(cl.t, err)
	}
	require.NoError(cl.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := cl.send(req)
	out := map[string]interface{}{}
	require.NoError(cl.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func images(n int) []upload {
	files := make([]upload, n)
	for i := range files {
		files[i] = upload{
			name:        "img" + string(rune('a'+i)) + ".png",
			contentType: "image/png",
			data:        []byte("\x89PNG\r\n\x1a\nimage-" + string(rune('a'+i))),
		}
	}
	return files
}

func (cl *client) lastOTP(email string) string {
	cl.t.Helper()
	msgs := cl.env.Mail.SentTo(email)
	require.NotEmpty(cl.t, msgs)
	m := otpPattern.FindStringSubmatch(msgs[len(msgs)-1].Text)
	require.Len(cl.t, m, 2)
	return m[1]
}

// verifiedSeller signs up, verifies the email channel and logs in.
func (cl *client) verifiedSeller(email string) string {
	cl.t.Helper()
	code, body := cl.json(http.MethodPost, "/admin/seller/signup", map[string]string{
		"phoneNumber": "9876543210", "emailId": email, "password": "hunter22",
	})
	require.Equal(cl.t, http.StatusCreated, code, body)
	sellerId := body["sellerId"].(string)

	code, body = cl.json(http.MethodPost, "/admin/send-otp", map[string]string{"sellerId": sellerId})
	require.Equal(cl.t, http.StatusOK, code, body)
	code, body = cl.json(http.MethodPost, "/admin/verify-otp", map[string]string{"sellerId": sellerId, "otp": cl.lastOTP(email)})
	require.Equal(cl.t, http.StatusOK, code, body)

	code, body = cl.json(http.MethodPost, "/admin/login", map[string]string{
		"sellerId": sellerId, "emailOrPhone": email, "password": "hunter22",
	})
	require.Equal(cl.t, http.StatusOK, code, body)
	return sellerId
}

func TestSellerLifecycle(t *testing.T) {
	cl := newClient(t, nil)

	code, body := cl.json(http.MethodPost, "/admin/seller/signup", map[string]string{
		"phoneNumber": "9876543210", "emailId": "shop@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, true, body["success"])
	sellerId, _ := body["sellerId"].(string)
	assert.Regexp(t, `^MBSLR\d{5}$`, sellerId)

	code, body = cl.json(http.MethodGet, "/admin/session", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, sellerId, body["sellerId"])

	code, body = cl.json(http.MethodPost, "/admin/login", map[string]string{
		"sellerId": sellerId, "emailOrPhone": "shop@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "ACCOUNT_NOT_VERIFIED", body["code"])

	code, _ = cl.json(http.MethodPost, "/admin/send-otp", map[string]string{"sellerId": sellerId})
	require.Equal(t, http.StatusOK, code)
	otp := cl.lastOTP("shop@example.com")

	code, body = cl.json(http.MethodPost, "/admin/verify-phone", map[string]string{"sellerId": sellerId, "otp": "12345"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_OTP", body["code"])

	code, body = cl.json(http.MethodPost, "/admin/verify-phone", map[string]string{"sellerId": sellerId, "otp": otp})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, true, body["phoneVerified"])

	code, body = cl.json(http.MethodPost, "/admin/login", map[string]string{
		"sellerId": sellerId, "emailOrPhone": "9876543210", "password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])
	assert.Equal(t, "Incorrect password provided", body["details"])

	code, body = cl.json(http.MethodPost, "/admin/login", map[string]string{
		"sellerId": sellerId, "emailOrPhone": "9876543210", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Login successful", body["message"])

	code, body = cl.json(http.MethodPost, "/admin/verify-seller", map[string]string{"sellerId": sellerId})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "loggedin", body["loggedIn"])
	assert.Equal(t, false, body["emailVerified"])
	assert.Equal(t, true, body["phoneVerified"])

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", strings.NewReader(`{"sellerId":"`+sellerId+`"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := cl.send(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var expired bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "sellerhub.sid" && ck.MaxAge < 0 {
			expired = true
		}
	}
	assert.True(t, expired, "logout must expire the session cookie")

	code, _ = cl.json(http.MethodGet, "/admin/session", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = cl.json(http.MethodPost, "/admin/verify-seller", map[string]string{"sellerId": sellerId})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "loggedout", body["loggedIn"])
}

func TestSellerErrors(t *testing.T) {
	cl := newClient(t, nil)

	code, body := cl.json(http.MethodPost, "/admin/seller/signup", map[string]string{"emailId": "a@example.com"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "MISSING_FIELDS", body["code"])
	assert.Equal(t, false, body["success"])

	sellerId := cl.verifiedSeller("a@example.com")
	code, body = cl.json(http.MethodPost, "/admin/seller/signup", map[string]string{
		"phoneNumber": "1", "emailId": "a@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "SELLER_EXISTS", body["code"])

	code, body = cl.json(http.MethodPost, "/admin/send-otp", map[string]string{"sellerId": "MBSLR00000"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "SELLER_NOT_FOUND", body["code"])

	code, body = cl.json(http.MethodPost, "/admin/verify-seller", map[string]string{"sellerId": "MBSLR00000"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Invalid seller ID", body["message"])

	cl.env.Mail.FailAll(assert.AnError)
	code, body = cl.json(http.MethodPost, "/admin/send-otp", map[string]string{"sellerId": sellerId})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "EMAIL_FAILED", body["code"])
	assert.Contains(t, body["details"], "Email sending failed")
}

func TestCouponEndpoints(t *testing.T) {
	cl := newClient(t, nil)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		code, body := cl.json(http.MethodPost, "/admin/customers", map[string]string{"name": "x", "email": email})
		require.Equal(t, http.StatusCreated, code, body)
	}
	code, body := cl.json(http.MethodPost, "/admin/customers", map[string]string{"name": "x", "email": "A@example.com"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "CUSTOMER_EXISTS", body["code"])

	cl.env.Mail.FailFor("b@example.com")

	code, body = cl.json(http.MethodPost, "/save-coupon", map[string]interface{}{"code": "SAVE10", "discountPercentage": 10})
	require.Equal(t, http.StatusOK, code, body)
	assert.EqualValues(t, 3, body["totalUsers"])
	assert.EqualValues(t, 2, body["successfulEmails"])
	assert.EqualValues(t, 1, body["failedEmails"])
	assert.Equal(t, []interface{}{"b@example.com"}, body["failedEmailAddresses"])

	code, body = cl.json(http.MethodPost, "/save-coupon", map[string]interface{}{"code": "SAVE10", "discountPercentage": 10})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "COUPON_EXISTS", body["code"])

	code, body = cl.json(http.MethodPost, "/save-coupon", map[string]interface{}{"code": "BAD"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "MISSING_FIELDS", body["code"])

	for _, weird := range []string{"NaN", "Inf", "-Inf"} {
		code, body = cl.json(http.MethodPost, "/save-coupon", map[string]interface{}{"code": "WEIRD", "discountPercentage": weird})
		assert.Equal(t, http.StatusBadRequest, code, weird)
		assert.Equal(t, "INVALID_DISCOUNT", body["code"], weird)
	}

	code, body = cl.json(http.MethodGet, "/get-coupon", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["coupons"], 1)

	code, body = cl.json(http.MethodPost, "/verify-coupon", map[string]string{"code": "SAVE10"})
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 10, body["discountPercentage"])

	code, _ = cl.json(http.MethodPost, "/verify-coupon", map[string]string{"code": "UNKNOWN"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = cl.json(http.MethodDelete, "/delete-coupon", map[string]interface{}{"code": "SAVE10", "discountPercentage": 15})
	assert.Equal(t, http.StatusNotFound, code)

	code, body = cl.json(http.MethodDelete, "/delete-coupon", map[string]interface{}{"code": "SAVE10", "discountPercentage": "10"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Coupon deleted successfully", body["message"])
	assert.EqualValues(t, 1, body["failedEmails"])
	assert.Len(t, cl.env.Mail.SentTo("a@example.com"), 2)
}

func TestProductEndpoints(t *testing.T) {
	cl := newClient(t, nil)
	fields := map[string]string{
		"productId": "teddy-1", "name": "Teddy", "price": "499.00", "category": "Soft Toys",
		"rating": "4.5", "inStockValue": "10", "soldStockValue": "2", "description": "Plush",
	}

	code, body := cl.multipart("/add-product", fields, images(6))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "TOO_MANY_IMAGES", body["code"])

	code, body = cl.multipart("/add-product", fields, images(5))
	require.Equal(t, http.StatusCreated, code, body)
	product := body["product"].(map[string]interface{})
	assert.Equal(t, "teddy-1", product["productId"])
	assert.Equal(t, "on", product["visibility"])
	assert.Len(t, product["img"], 5)

	code, body = cl.multipart("/add-product", fields, images(1))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "PRODUCT_EXISTS", body["code"])

	mug := map[string]string{"name": "Mug", "price": "199", "category": "Mugs", "inStockValue": "50"}
	code, body = cl.multipart("/add-product", mug, images(1))
	require.Equal(t, http.StatusCreated, code, body)
	mugId := body["product"].(map[string]interface{})["productId"].(string)
	assert.Len(t, mugId, 32)

	bad := map[string]string{"name": "Broken", "price": "abc", "category": "Mugs"}
	code, body = cl.multipart("/add-product", bad, images(1))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_PRICE", body["code"])

	code, body = cl.json(http.MethodGet, "/get-product?sort=price&order=desc", nil)
	require.Equal(t, http.StatusOK, code)
	list := body["products"].([]interface{})
	require.Len(t, list, 2)
	assert.Equal(t, "teddy-1", list[0].(map[string]interface{})["productId"])

	code, body = cl.json(http.MethodGet, "/get-product?category=Mugs", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["products"], 1)

	code, body = cl.json(http.MethodGet, "/get-product?q=TED", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["products"], 1)

	req := httptest.NewRequest(http.MethodGet, "/product/teddy-1/images/2", nil)
	rec := cl.send(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasSuffix(rec.Body.Bytes(), []byte("image-c")))

	code, _ = cl.json(http.MethodGet, "/product/teddy-1/images/7", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = cl.json(http.MethodPut, "/instock-update", map[string]interface{}{
		"productId": "teddy-1", "name": "Teddy XL", "price": 549.5, "inStockValue": 8, "soldStockValue": 4,
	})
	require.Equal(t, http.StatusOK, code, body)
	product = body["product"].(map[string]interface{})
	assert.Equal(t, "Teddy XL", product["name"])
	assert.Equal(t, "549.5", product["price"])
	assert.EqualValues(t, 8, product["inStockValue"])
	assert.Equal(t, "Soft Toys", product["category"])

	code, body = cl.json(http.MethodPut, "/instock-update", map[string]interface{}{"productId": "teddy-1", "inStockValue": -1})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_STOCK", body["code"])

	code, _ = cl.json(http.MethodPut, "/instock-update", map[string]interface{}{"productId": "nope", "name": "x"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = cl.json(http.MethodPut, "/update-visibility", map[string]string{"productId": "teddy-1", "visibility": "off"})
	require.Equal(t, http.StatusOK, code)
	code, body = cl.json(http.MethodGet, "/get-product?visibility=off", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["products"], 1)

	code, _ = cl.json(http.MethodPut, "/update-visibility", map[string]string{"productId": "teddy-1", "visibility": "maybe"})
	assert.Equal(t, http.StatusBadRequest, code)

	req = httptest.NewRequest(http.MethodGet, "/export-products?format=csv", nil)
	rec = cl.send(req)
	require.Equal(t, http.StatusOK, rec.Code)
	header := strings.SplitN(rec.Body.String(), "\n", 2)[0]
	assert.Equal(t, "productId,name,price,category,rating,inStockValue,soldStockValue,description,visibility,createdAt", header)

	req = httptest.NewRequest(http.MethodGet, "/export-products?format=xlsx", nil)
	rec = cl.send(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip container")

	code, _ = cl.json(http.MethodDelete, "/delete-product/teddy-1", nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = cl.json(http.MethodGet, "/product/teddy-1", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = cl.json(http.MethodDelete, "/delete-product/teddy-1", nil)
	assert.Equal(t, http.StatusNotFound, code)

	var orphans int64
	require.NoError(t, cl.env.App.DB().Model(&domain.ProductImage{}).Count(&orphans).Error)
	assert.EqualValues(t, 1, orphans, "only the mug image remains")
}

func TestRequireSession(t *testing.T) {
	cl := newClient(t, func(cfg *config.AppConfig) {
		cfg.Web.RequireSession = true
	})

	code, body := cl.json(http.MethodPost, "/admin/customers", map[string]string{"name": "x", "email": "x@example.com"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", body["code"])

	code, _ = cl.json(http.MethodGet, "/get-coupon", nil)
	assert.Equal(t, http.StatusOK, code, "reads stay public")

	sellerId := cl.verifiedSeller("owner@example.com")
	code, body = cl.json(http.MethodPost, "/admin/customers", map[string]string{"name": "x", "email": "x@example.com"})
	assert.Equal(t, http.StatusCreated, code, body)

	code, _ = cl.json(http.MethodPost, "/admin/logout", map[string]string{"sellerId": sellerId})
	require.Equal(t, http.StatusOK, code)
	code, _ = cl.json(http.MethodGet, "/admin/customers", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuditTrail(t *testing.T) {
	cl := newClient(t, nil)
	sellerId := cl.verifiedSeller("audit@example.com")
	code, _ := cl.json(http.MethodPost, "/save-coupon", map[string]interface{}{"code": "HELLO", "discountPercentage": 5})
	require.Equal(t, http.StatusOK, code)

	cl.env.App.FlushAudit()
	code, body := cl.json(http.MethodGet, "/admin/audit", nil)
	require.Equal(t, http.StatusOK, code)

	actions := map[string]string{}
	for _, raw := range body["logs"].([]interface{}) {
		entry := raw.(map[string]interface{})
		actions[entry["action"].(string)] = entry["actor"].(string)
	}
	assert.Equal(t, sellerId, actions["seller.signup"])
	assert.Equal(t, sellerId, actions["seller.login"])
	assert.Equal(t, sellerId, actions["coupon.create"])
}

func TestStoreFailuresAreReported(t *testing.T) {
	cl := newClient(t, nil)
	migrator := cl.env.App.DB().Migrator()
	require.NoError(t, migrator.DropTable(&domain.Customer{}))
	require.NoError(t, migrator.DropTable(&domain.ProductImage{}, &domain.Product{}))

	code, body := cl.json(http.MethodPost, "/admin/customers", map[string]string{"name": "x", "email": "x@example.com"})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "DATABASE_ERROR", body["code"])
	assert.Equal(t, "Failed to query customers", body["message"])

	fields := map[string]string{"productId": "p-1", "name": "Mug", "price": "10", "category": "Mugs"}
	code, body = cl.multipart("/add-product", fields, images(1))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "DATABASE_ERROR", body["code"])
	assert.Equal(t, "Failed to query products", body["message"])
}

func TestLoginRollsBackWhenSessionCannotBeSaved(t *testing.T) {
	cl := newClient(t, func(cfg *config.AppConfig) {
		cfg.Session.Store = "filesystem"
	})
	sellerId := cl.verifiedSeller("shop@example.com")
	code, body := cl.json(http.MethodPost, "/admin/logout", map[string]string{"sellerId": sellerId})
	require.Equal(t, http.StatusOK, code, body)
	cl.cookies = map[string]*http.Cookie{}

	require.NoError(t, os.RemoveAll(filepath.Join(cl.env.App.Config().System.Workdir, "sessions")))

	code, body = cl.json(http.MethodPost, "/admin/login", map[string]string{
		"sellerId": sellerId, "emailOrPhone": "shop@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "SESSION_ERROR", body["code"])

	code, body = cl.json(http.MethodPost, "/admin/verify-seller", map[string]string{"sellerId": sellerId})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "loggedout", body["loggedIn"])
}
