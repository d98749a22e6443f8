package adminapi

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/merabestie/sellerhub/internal/domain"
	"github.com/merabestie/sellerhub/internal/webserver"
	"github.com/merabestie/sellerhub/pkg/common"
)

// productForm is the multipart add-product body after flattening.
type productForm struct {
	ProductId      string  `mapstructure:"productId" json:"productId" validate:"omitempty,max=64"`
	Name           string  `mapstructure:"name" json:"name" validate:"required,max=200"`
	Price          string  `mapstructure:"price" json:"price" validate:"required"`
	Category       string  `mapstructure:"category" json:"category" validate:"required,max=128"`
	Rating         float64 `mapstructure:"rating" json:"rating" validate:"min=0,max=5"`
	InStockValue   int     `mapstructure:"inStockValue" json:"inStockValue" validate:"min=0"`
	SoldStockValue int     `mapstructure:"soldStockValue" json:"soldStockValue" validate:"min=0"`
	Description    string  `mapstructure:"description" json:"description"`
	Visibility     string  `mapstructure:"visibility" json:"visibility" validate:"omitempty,oneof=on off"`
}

// stockPayload carries the editable fields of instock-update. Absent fields
// are left untouched.
type stockPayload struct {
	ProductId      string  `mapstructure:"productId"`
	Name           *string `mapstructure:"name"`
	Category       *string `mapstructure:"category"`
	Price          *string `mapstructure:"price"`
	InStockValue   *int    `mapstructure:"inStockValue"`
	SoldStockValue *int    `mapstructure:"soldStockValue"`
	Description    *string `mapstructure:"description"`
}

type visibilityPayload struct {
	ProductId  string `json:"productId" validate:"required"`
	Visibility string `json:"visibility" validate:"required,oneof=on off"`
}

// product list sort keys and their columns
var productSortColumns = map[string]string{
	"name":           "name",
	"category":       "category",
	"price":          "price",
	"rating":         "rating",
	"inStockValue":   "in_stock_value",
	"soldStockValue": "sold_stock_value",
	"createdAt":      "created_at",
}

// registerProductRoutes registers product catalog endpoints
func registerProductRoutes() {
	webserver.ApiPOST("/add-product", addProduct, RequireSession)
	webserver.ApiGET("/get-product", listProducts)
	webserver.ApiGET("/product/:id", getProduct)
	webserver.ApiGET("/product/:id/images/:index", getProductImage)
	webserver.ApiPUT("/instock-update", updateStock, RequireSession)
	webserver.ApiPUT("/update-visibility", updateVisibility, RequireSession)
	webserver.ApiDELETE("/delete-product/:id", deleteProduct, RequireSession)
}

func weakDecode(input interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func flattenForm(values map[string][]string) map[string]string {
	flat := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			flat[k] = strings.TrimSpace(v[0])
		}
	}
	return flat
}

func readImage(fh *multipart.FileHeader, pos int) (domain.ProductImage, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.ProductImage{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return domain.ProductImage{}, err
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	return domain.ProductImage{
		ID:          common.UUIDint64(),
		Position:    pos,
		Data:        data,
		ContentType: ct,
		Filename:    fh.Filename,
		UploadDate:  time.Now(),
	}, nil
}

func addProduct(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Expected a multipart form", err.Error())
	}

	var payload productForm
	if err := weakDecode(flattenForm(form.Value), &payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid product", err.Error())
	}

	price, err := decimal.NewFromString(payload.Price)
	if err != nil || price.IsNegative() {
		return fail(c, http.StatusBadRequest, "INVALID_PRICE", "Price must be a non-negative number", payload.Price)
	}

	files := form.File["images"]
	if len(files) == 0 {
		return fail(c, http.StatusBadRequest, "MISSING_IMAGES", "At least one image is required", nil)
	}
	if len(files) > domain.MaxProductImages {
		return fail(c, http.StatusBadRequest, "TOO_MANY_IMAGES", "Too many images",
			"A product can have at most 5 images")
	}

	if payload.ProductId == "" {
		payload.ProductId = common.UUID()
	}
	if payload.Visibility == "" {
		payload.Visibility = domain.VisibilityOn
	}

	var exists int64
	err = GetDB(c).Model(&domain.Product{}).Where("product_id = ?", payload.ProductId).Count(&exists).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	if exists > 0 {
		return fail(c, http.StatusBadRequest, "PRODUCT_EXISTS", "Product ID already exists", payload.ProductId)
	}

	images := make([]domain.ProductImage, 0, len(files))
	for i, fh := range files {
		img, err := readImage(fh, i)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_IMAGE", "Unable to read uploaded image", err.Error())
		}
		images = append(images, img)
	}

	now := time.Now()
	p := domain.Product{
		ID:             common.UUIDint64(),
		ProductId:      payload.ProductId,
		Name:           payload.Name,
		Price:          price,
		Category:       payload.Category,
		Rating:         payload.Rating,
		InStockValue:   payload.InStockValue,
		SoldStockValue: payload.SoldStockValue,
		Description:    payload.Description,
		Visibility:     payload.Visibility,
		Images:         images,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&p).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}

	audit(c, "", "product.create", p.ProductId+" "+p.Name)
	return ok(c, http.StatusCreated, "Product added successfully", H{"product": p})
}

func listProducts(c echo.Context) error {
	db := GetDB(c).Model(&domain.Product{})

	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("name ILIKE ? OR product_id ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			like := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(product_id) LIKE ?", like, like)
		}
	}
	if category := strings.TrimSpace(c.QueryParam("category")); category != "" {
		db = db.Where("category = ?", category)
	}
	if v := strings.TrimSpace(c.QueryParam("visibility")); v != "" {
		db = db.Where("visibility = ?", v)
	}

	sortCol, found := productSortColumns[strings.TrimSpace(c.QueryParam("sort"))]
	if !found {
		sortCol = "created_at"
	}
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	var rows []domain.Product
	err := db.Preload("Images", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	}).Order(sortCol + " " + order).Order("id ASC").Find(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	if rows == nil {
		rows = []domain.Product{}
	}
	return ok(c, http.StatusOK, "", H{"products": rows})
}

// findProduct loads a product by its public ID, images included.
func findProduct(c echo.Context, productId string) (*domain.Product, error) {
	var p domain.Product
	err := GetDB(c).Preload("Images", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	}).Where("product_id = ?", productId).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func productLookupFailed(c echo.Context, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	}
	return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
}

func getProduct(c echo.Context) error {
	p, err := findProduct(c, c.Param("id"))
	if err != nil {
		return productLookupFailed(c, err)
	}
	return ok(c, http.StatusOK, "", H{"product": p})
}

func getProductImage(c echo.Context) error {
	index, err := cast.ToIntE(c.Param("index"))
	if err != nil || index < 0 {
		return fail(c, http.StatusBadRequest, "INVALID_INDEX", "Invalid image index", c.Param("index"))
	}
	p, err := findProduct(c, c.Param("id"))
	if err != nil {
		return productLookupFailed(c, err)
	}
	if index >= len(p.Images) {
		return fail(c, http.StatusNotFound, "IMAGE_NOT_FOUND", "Image not found", nil)
	}
	img := p.Images[index]
	return c.Blob(http.StatusOK, img.ContentType, img.Data)
}

func updateStock(c echo.Context) error {
	raw := map[string]interface{}{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &raw); err != nil {
		return invalidBody(c, err)
	}
	var payload stockPayload
	if err := weakDecode(raw, &payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product update", err.Error())
	}
	payload.ProductId = strings.TrimSpace(payload.ProductId)
	if payload.ProductId == "" {
		return fail(c, http.StatusBadRequest, "MISSING_FIELDS", "Product ID is required", nil)
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if payload.Name != nil {
		updates["name"] = strings.TrimSpace(*payload.Name)
	}
	if payload.Category != nil {
		updates["category"] = strings.TrimSpace(*payload.Category)
	}
	if payload.Description != nil {
		updates["description"] = *payload.Description
	}
	if payload.Price != nil {
		price, err := decimal.NewFromString(strings.TrimSpace(*payload.Price))
		if err != nil || price.IsNegative() {
			return fail(c, http.StatusBadRequest, "INVALID_PRICE", "Price must be a non-negative number", *payload.Price)
		}
		updates["price"] = price
	}
	if payload.InStockValue != nil {
		if *payload.InStockValue < 0 {
			return fail(c, http.StatusBadRequest, "INVALID_STOCK", "Stock values cannot be negative", nil)
		}
		updates["in_stock_value"] = *payload.InStockValue
	}
	if payload.SoldStockValue != nil {
		if *payload.SoldStockValue < 0 {
			return fail(c, http.StatusBadRequest, "INVALID_STOCK", "Stock values cannot be negative", nil)
		}
		updates["sold_stock_value"] = *payload.SoldStockValue
	}

	res := GetDB(c).Model(&domain.Product{}).Where("product_id = ?", payload.ProductId).Updates(updates)
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	}

	p, err := findProduct(c, payload.ProductId)
	if err != nil {
		return productLookupFailed(c, err)
	}
	audit(c, "", "product.update", p.ProductId)
	return ok(c, http.StatusOK, "Product updated successfully", H{"product": p})
}

func updateVisibility(c echo.Context) error {
	var payload visibilityPayload
	if err := c.Bind(&payload); err != nil {
		return invalidBody(c, err)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid visibility update", err.Error())
	}

	res := GetDB(c).Model(&domain.Product{}).Where("product_id = ?", payload.ProductId).
		Updates(map[string]interface{}{"visibility": payload.Visibility, "updated_at": time.Now()})
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	}
	audit(c, "", "product.visibility", payload.ProductId+" "+payload.Visibility)
	return ok(c, http.StatusOK, "Visibility updated successfully", H{
		"productId":  payload.ProductId,
		"visibility": payload.Visibility,
	})
}

func deleteProduct(c echo.Context) error {
	productId := c.Param("id")
	p, err := findProduct(c, productId)
	if err != nil {
		return productLookupFailed(c, err)
	}
	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", p.ID).Delete(&domain.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Product{}, p.ID).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	audit(c, "", "product.delete", productId)
	return ok(c, http.StatusOK, "Product deleted successfully", H{"productId": productId})
}
