package productcontroller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/ManishKrBarman/LokRise-sub002/auth"
	"github.com/ManishKrBarman/LokRise-sub002/models"
	"github.com/ManishKrBarman/LokRise-sub002/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(db *gorm.DB, uploads, sellerID string) *gin.Engine {
	r := gin.New()
	r.GET("/products", GetProducts(db))
	r.GET("/products/:id", GetProductByID(db))
	r.GET("/categories", GetAllCategories(db))

	seller := r.Group("/seller", func(c *gin.Context) {
		c.Set(auth.CtxUserID, sellerID)
		c.Set(auth.CtxRole, string(models.AccountSeller))
	})
	seller.POST("/products", CreateProduct(db, uploads))
	seller.GET("/products", GetSellerProducts(db))
	seller.GET("/products/:id", GetSellerProduct(db))
	seller.PUT("/products/:id", UpdateProduct(db, uploads))
	seller.DELETE("/products/:id", DeleteProduct(db))

	r.POST("/admin/categories", CreateCategory(db, uploads))
	r.GET("/admin/products/export-excel", ExportProductsToExcel(db))
	r.POST("/admin/products/import-excel", ImportProductsFromExcel(db))
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func listNames(t *testing.T, r http.Handler, query string) []string {
	t.Helper()
	rr := serve(r, httptest.NewRequest(http.MethodGet, "/products"+query, nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var products []models.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &products))
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}

func multipartRequest(t *testing.T, method, path string, fields map[string]string, fileField, fileName string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestListFiltersAndSort(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedProduct(t, db, "Go Basics", 10, 5)
	testutil.SeedProduct(t, db, "Advanced Go", 40, 5)
	mug := models.Product{Name: "Mug", Price: 5, Type: models.ProductTypeProduct, Stock: 3}
	require.NoError(t, db.Create(&mug).Error)
	r := newRouter(db, t.TempDir(), "seller-1")

	assert.Equal(t, []string{"Mug", "Go Basics", "Advanced Go"}, listNames(t, r, "?sort_by=price&order=asc"))
	assert.ElementsMatch(t, []string{"Go Basics", "Advanced Go"}, listNames(t, r, "?search=go"))
	assert.Equal(t, []string{"Mug"}, listNames(t, r, "?type=product"))
	assert.Equal(t, []string{"Advanced Go"}, listNames(t, r, "?min_price=20"))
	assert.ElementsMatch(t, []string{"Mug", "Go Basics"}, listNames(t, r, "?max_price=10"))

	for _, q := range []string{"?sort_by=password", "?type=ebook", "?min_price=abc", "?category_id=x"} {
		rr := serve(r, httptest.NewRequest(http.MethodGet, "/products"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
	}
}

func TestCategoryFilter(t *testing.T) {
	db := testutil.NewDB(t)
	r := newRouter(db, t.TempDir(), "seller-1")

	req := httptest.NewRequest(http.MethodPost, "/admin/categories", strings.NewReader(`{"name":"Programming"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := serve(r, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var cat models.Category
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cat))

	req = httptest.NewRequest(http.MethodPost, "/admin/categories", strings.NewReader(`{"name":"Programming"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusConflict, serve(r, req).Code)

	p := testutil.SeedProduct(t, db, "Go Basics", 10, 5)
	testutil.SeedProduct(t, db, "Pottery", 10, 5)
	require.NoError(t, db.Model(&p).Association("Categories").Append(&cat))

	assert.Equal(t, []string{"Go Basics"}, listNames(t, r, fmt.Sprintf("?category_id=%d", cat.ID)))

	rr = serve(r, httptest.NewRequest(http.MethodGet, "/categories", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Programming")
}

func TestGetProductByID(t *testing.T) {
	db := testutil.NewDB(t)
	p := testutil.SeedProduct(t, db, "Go Basics", 10, 5)
	r := newRouter(db, t.TempDir(), "seller-1")

	rr := serve(r, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d", p.ID), nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Go Basics")

	assert.Equal(t, http.StatusNotFound, serve(r, httptest.NewRequest(http.MethodGet, "/products/999", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, httptest.NewRequest(http.MethodGet, "/products/abc", nil)).Code)
}

func TestSellerCreatesProductWithImage(t *testing.T) {
	db := testutil.NewDB(t)
	uploads := t.TempDir()
	r := newRouter(db, uploads, "seller-1")

	req := multipartRequest(t, http.MethodPost, "/seller/products", map[string]string{
		"name":  "Clay Workshop",
		"price": "499.5",
		"type":  "course",
		"stock": "20",
	}, "image", "my cover.png", []byte("png"))
	rr := serve(r, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created models.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "seller-1", created.SellerID)
	assert.Equal(t, 499.5, created.Price)
	require.Len(t, created.Images, 1)
	assert.True(t, strings.HasPrefix(created.Images[0], "/uploads/products/"))
	assert.NotContains(t, created.Images[0], " ")

	_, err := os.Stat(filepath.Join(uploads, "products", filepath.Base(created.Images[0])))
	assert.NoError(t, err)

	rr = serve(r, httptest.NewRequest(http.MethodGet, "/seller/products", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Clay Workshop")
}

func TestCreateProductRejects(t *testing.T) {
	db := testutil.NewDB(t)
	r := newRouter(db, t.TempDir(), "seller-1")

	cases := []map[string]string{
		{"price": "10"},
		{"name": "x", "price": "-1"},
		{"name": "x", "price": "10", "type": "ebook"},
		{"name": "x", "price": "10", "stock": "many"},
		{"name": "x", "price": "10", "category_ids": "1,a"},
	}
	for _, fields := range cases {
		rr := serve(r, multipartRequest(t, http.MethodPost, "/seller/products", fields, "", "", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code, fields)
	}
}

func TestUpdateAndDeleteOwnProductOnly(t *testing.T) {
	db := testutil.NewDB(t)
	mine := models.Product{Name: "Mine", Price: 10, Type: models.ProductTypeProduct, SellerID: "seller-1"}
	theirs := models.Product{Name: "Theirs", Price: 10, Type: models.ProductTypeProduct, SellerID: "seller-2"}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&theirs).Error)
	r := newRouter(db, t.TempDir(), "seller-1")

	assert.Equal(t, http.StatusOK,
		serve(r, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/seller/products/%d", mine.ID), nil)).Code)
	assert.Equal(t, http.StatusForbidden,
		serve(r, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/seller/products/%d", theirs.ID), nil)).Code)

	rr := serve(r, multipartRequest(t, http.MethodPut, fmt.Sprintf("/seller/products/%d", theirs.ID),
		map[string]string{"name": "Stolen"}, "", "", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = serve(r, multipartRequest(t, http.MethodPut, fmt.Sprintf("/seller/products/%d", mine.ID),
		map[string]string{"name": "Renamed", "price": "12"}, "", "", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, mine.ID).Error)
	assert.Equal(t, "Renamed", reloaded.Name)
	assert.Equal(t, 12.0, reloaded.Price)

	assert.Equal(t, http.StatusForbidden,
		serve(r, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/seller/products/%d", theirs.ID), nil)).Code)
	assert.Equal(t, http.StatusOK,
		serve(r, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/seller/products/%d", mine.ID), nil)).Code)
	assert.Equal(t, http.StatusNotFound,
		serve(r, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/products/%d", mine.ID), nil)).Code)
}

func TestExcelExportAndImport(t *testing.T) {
	db := testutil.NewDB(t)
	a := testutil.SeedProduct(t, db, "Go Basics", 10, 5)
	testutil.SeedProduct(t, db, "Advanced Go", 40, 5)
	r := newRouter(db, t.TempDir(), "seller-1")

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/admin/products/export-excel", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "products.xlsx")

	exported, err := xlsx.OpenBinary(rr.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, exported.Sheets, 1)
	rows := exported.Sheets[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "Name", rows[0].Cells[1].String())
	assert.Equal(t, "Go Basics", rows[1].Cells[1].String())

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	require.NoError(t, err)
	for _, values := range [][]string{
		productColumns,
		{fmt.Sprint(a.ID), "Go Basics 2e", "", "15", "course", "5", "", "", ""},
		{"", "Notebook", "A5 dotted", "3.5", "product", "100", "seller-1", "/uploads/nb.png", ""},
		{"", "", "missing name", "1", "", "", "", "", ""},
	} {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))

	rr = serve(r, multipartRequest(t, http.MethodPost, "/admin/products/import-excel", nil, "file", "products.xlsx", buf.Bytes()))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"message":"Import completed","created_count":1,"updated_count":1,"skipped_count":1}`, rr.Body.String())

	var updated models.Product
	require.NoError(t, db.First(&updated, a.ID).Error)
	assert.Equal(t, "Go Basics 2e", updated.Name)
	assert.Equal(t, 15.0, updated.Price)

	var notebook models.Product
	require.NoError(t, db.Where("name = ?", "Notebook").First(&notebook).Error)
	assert.Equal(t, []string{"/uploads/nb.png"}, notebook.Images)
}

func TestImportSkipsRowWhenCategoryLookupFails(t *testing.T) {
	db := testutil.NewDB(t)
	a := testutil.SeedProduct(t, db, "Go Basics", 10, 5)
	cat := models.Category{Name: "Programming"}
	require.NoError(t, db.Create(&cat).Error)
	require.NoError(t, db.Model(&a).Association("Categories").Append(&cat))
	r := newRouter(db, t.TempDir(), "seller-1")

	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("fail_categories", func(tx *gorm.DB) {
		if tx.Statement.Table == "categories" {
			_ = tx.AddError(errors.New("categories unavailable"))
		}
	}))

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	require.NoError(t, err)
	for _, values := range [][]string{
		productColumns,
		{fmt.Sprint(a.ID), "Go Basics 2e", "", "15", "course", "5", "", "", fmt.Sprint(cat.ID)},
	} {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().SetString(v)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))

	rr := serve(r, multipartRequest(t, http.MethodPost, "/admin/products/import-excel", nil, "file", "products.xlsx", buf.Bytes()))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"message":"Import completed","created_count":0,"updated_count":0,"skipped_count":1}`, rr.Body.String())

	var links int64
	require.NoError(t, db.Table("product_categories").Where("product_id = ?", a.ID).Count(&links).Error)
	assert.Equal(t, int64(1), links, "existing categories are kept")
}
