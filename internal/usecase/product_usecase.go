package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// GET /products
func (u *ProductUsecase) ListVisibleProducts(ctx context.Context) ([]model.Product, error) {
	items, err := u.productRepo.ListVisible(ctx)
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// GET /products/category/:category
func (u *ProductUsecase) ListByCategory(ctx context.Context, categoryName string) ([]model.Product, error) {
	if strings.TrimSpace(categoryName) == "" {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}

	cat, err := u.categoryRepo.FindByNameFold(ctx, categoryName)
	if err == repo.ErrNotFound {
		return []model.Product{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.productRepo.ListVisibleByCategoryID(ctx, cat.ID)
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// GET /products/category/:category/:subcategory
func (u *ProductUsecase) ListBySubCategory(ctx context.Context, categoryName string, subCategoryName string) ([]model.Product, error) {
	if strings.TrimSpace(categoryName) == "" || strings.TrimSpace(subCategoryName) == "" {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}

	cat, err := u.categoryRepo.FindByNameFold(ctx, categoryName)
	if err == repo.ErrNotFound {
		return []model.Product{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	sub, err := u.categoryRepo.FindSubCategoryByNameFold(ctx, cat.ID, subCategoryName)
	if err == repo.ErrNotFound {
		return []model.Product{}, NewHTTPError(http.StatusNotFound, "subcategory not found")
	}
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.productRepo.ListVisibleBySubCategoryID(ctx, sub.ID)
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// GET /products/related/:id
// 同カテゴリ・同サブカテゴリの近い商品を最大10件返す。
func (u *ProductUsecase) ListRelated(ctx context.Context, serial int64) ([]model.Product, error) {
	if serial <= 0 {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindBySerial(ctx, serial)
	if err == repo.ErrNotFound {
		return []model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.productRepo.ListRelated(ctx, p, 10)
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

type ImportResult struct {
	Created int `json:"created"`
	Errors  int `json:"errors"`
}

// CSVの商品名「Men_T-Shirts_RoundNeck」をカテゴリ・サブカテゴリ・商品名に分解。
// 形式が違う行は Uncategorized/Miscellaneous に寄せる。
func ParseProductName(productName string) (category string, subCategory string, title string) {
	parts := strings.SplitN(productName, "_", 3)
	if len(parts) != 3 {
		return "Uncategorized", "Miscellaneous", strings.TrimSpace(productName)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2])
}

// POST /products/import
// SKUをキーにした作成/更新。問題のある行はスキップして数だけ返す。
func (u *ProductUsecase) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, NewHTTPError(http.StatusBadRequest, "invalid csv file")
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["Product Name"]; !ok {
		return ImportResult{}, NewHTTPError(http.StatusBadRequest, "invalid csv file")
	}
	if _, ok := col["SKU"]; !ok {
		return ImportResult{}, NewHTTPError(http.StatusBadRequest, "invalid csv file")
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var result ImportResult

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors++
			continue
		}

		created, rowErr := u.importRow(ctx, row, field)
		if rowErr != nil {
			//問題のある行は止めずにスキップ
			result.Errors++
			continue
		}
		if created {
			result.Created++
		}
	}

	return result, nil
}

func (u *ProductUsecase) importRow(ctx context.Context, row []string, field func([]string, string) string) (bool, error) {
	name := field(row, "Product Name")
	sku := field(row, "SKU")
	if name == "" || sku == "" {
		return false, errors.New("missing product name or sku")
	}

	price, err := decimal.NewFromString(field(row, "Product & Shipping (Inclusive GST)"))
	if err != nil {
		return false, err
	}

	categoryName, subCategoryName, title := ParseProductName(name)

	cat, err := u.categoryRepo.GetOrCreateByName(ctx, categoryName)
	if err != nil {
		return false, err
	}
	sub, err := u.categoryRepo.GetOrCreateSubCategory(ctx, cat.ID, subCategoryName)
	if err != nil {
		return false, err
	}

	p := model.Product{
		Name:              title,
		Design:            field(row, "Design"),
		SKU:               sku,
		ProductType:       field(row, "Product Type"),
		PriceWithShipping: price,
		Sizes:             field(row, "Sizes"),
		CategoryID:        &cat.ID,
		SubCategoryID:     &sub.ID,
		IsVisible:         true,
	}

	saved, created, err := u.productRepo.UpsertBySKU(ctx, p)
	if err != nil {
		return false, err
	}

	//画像URLはカンマ区切りで重複は取り込まない
	if urls := field(row, "Image URLs"); urls != "" {
		for _, raw := range strings.Split(urls, ",") {
			imageURL := strings.TrimSpace(raw)
			if imageURL == "" {
				continue
			}
			if err := u.productRepo.AddImageIfAbsent(ctx, saved.SerialNumber, imageURL); err != nil {
				return created, err
			}
		}
	}

	return created, nil
}
