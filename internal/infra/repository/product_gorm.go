package repository

import (
	"context"
	"errors"
	"fmt"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 公開商品のみを画像付きで返す。
func (r *ProductGormRepository) ListVisible(ctx context.Context) ([]model.Product, error) {
	var products []model.Product

	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("is_visible = ?", true).
		Order("serial_number asc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}

	return products, nil
}

// カテゴリ配下の公開商品
func (r *ProductGormRepository) ListVisibleByCategoryID(ctx context.Context, categoryID int64) ([]model.Product, error) {
	var products []model.Product

	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("category_id = ? AND is_visible = ?", categoryID, true).
		Order("serial_number asc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}

	return products, nil
}

// サブカテゴリ配下の公開商品
func (r *ProductGormRepository) ListVisibleBySubCategoryID(ctx context.Context, subCategoryID int64) ([]model.Product, error) {
	var products []model.Product

	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("sub_category_id = ? AND is_visible = ?", subCategoryID, true).
		Order("serial_number asc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}

	return products, nil
}

// シリアル番号で商品を取得
func (r *ProductGormRepository) FindBySerial(ctx context.Context, serial int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("serial_number = ?", serial).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 公開商品だけを対象にした取得（カート追加用）
func (r *ProductGormRepository) FindVisibleBySerial(ctx context.Context, serial int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("serial_number = ? AND is_visible = ?", serial, true).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 同カテゴリ・同サブカテゴリの商品（自分自身を除く）。
// product_type と design が一致するものを優先的に寄せる。
func (r *ProductGormRepository) ListRelated(ctx context.Context, p model.Product, limit int) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}

	tx := r.db.WithContext(ctx).
		Preload("Images").
		Where("serial_number <> ? AND is_visible = ?", p.SerialNumber, true)

	if p.CategoryID != nil {
		tx = tx.Where("category_id = ?", *p.CategoryID)
	}
	if p.SubCategoryID != nil {
		tx = tx.Where("sub_category_id = ?", *p.SubCategoryID)
	}
	if p.ProductType != "" {
		tx = tx.Where("product_type = ?", p.ProductType)
	}
	if p.Design != "" {
		tx = tx.Where("design ILIKE ?", "%"+firstWord(p.Design)+"%")
	}

	var products []model.Product
	if err := tx.Order("serial_number asc").Limit(limit).Find(&products).Error; err != nil {
		return []model.Product{}, err
	}

	return products, nil
}

// SKUをキーに作成または更新。戻り値のboolは新規作成かどうか。
func (r *ProductGormRepository) UpsertBySKU(ctx context.Context, p model.Product) (model.Product, bool, error) {
	var out model.Product
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		findErr := tx.Where("sku = ?", p.SKU).First(&existing).Error

		if findErr == nil {
			//既存は上書き更新（product_idとserialは維持）
			res := tx.Model(&model.Product{}).
				Where("serial_number = ?", existing.SerialNumber).
				Updates(map[string]interface{}{
					"name":                p.Name,
					"design":              p.Design,
					"product_type":        p.ProductType,
					"price_with_shipping": p.PriceWithShipping,
					"sizes":               p.Sizes,
					"category_id":         p.CategoryID,
					"sub_category_id":     p.SubCategoryID,
				})
			if res.Error != nil {
				return res.Error
			}

			out = existing
			out.Name = p.Name
			out.Design = p.Design
			out.ProductType = p.ProductType
			out.PriceWithShipping = p.PriceWithShipping
			out.Sizes = p.Sizes
			out.CategoryID = p.CategoryID
			out.SubCategoryID = p.SubCategoryID
			return nil
		}

		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		//外部向け商品コードはserial確定後に採番
		if p.ProductID == "" {
			p.ProductID = fmt.Sprintf("PROD-%d", p.SerialNumber)
			if err := tx.Model(&model.Product{}).
				Where("serial_number = ?", p.SerialNumber).
				Update("product_id", p.ProductID).Error; err != nil {
				return err
			}
		}

		out = p
		created = true
		return nil
	})

	if err != nil {
		return model.Product{}, false, err
	}
	return out, created, nil
}

// 同じURLの画像が無いときだけ追加
func (r *ProductGormRepository) AddImageIfAbsent(ctx context.Context, productSerial int64, imageURL string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.ProductImage{}).
			Where("product_serial = ? AND image_url = ?", productSerial, imageURL).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		img := model.ProductImage{
			ProductSerial: productSerial,
			ImageURL:      imageURL,
		}
		return tx.Create(&img).Error
	})
}

func firstWord(s string) string {
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}
