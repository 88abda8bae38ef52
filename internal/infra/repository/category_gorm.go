package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

// 大文字小文字を無視して名前で1件取得
func (r *CategoryGormRepository) FindByNameFold(ctx context.Context, name string) (model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Where("lower(name) = lower(?)", name).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

// 名前で取得、無ければ作成
func (r *CategoryGormRepository) GetOrCreateByName(ctx context.Context, name string) (model.Category, error) {
	var c model.Category

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("name = ?", name).First(&c).Error
		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		newCat := model.Category{Name: name}
		if err := tx.Create(&newCat).Error; err != nil {
			//同時作成でuniqueに弾かれたらもう一回探す
			retryErr := tx.Where("name = ?", name).First(&c).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		c = newCat
		return nil
	})

	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

// カテゴリ配下のサブカテゴリを名前で1件取得
func (r *CategoryGormRepository) FindSubCategoryByNameFold(ctx context.Context, categoryID int64, name string) (model.SubCategory, error) {
	var sc model.SubCategory
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND lower(name) = lower(?)", categoryID, name).
		First(&sc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.SubCategory{}, repo.ErrNotFound
	}
	if err != nil {
		return model.SubCategory{}, err
	}
	return sc, nil
}

// サブカテゴリを取得、無ければ作成
func (r *CategoryGormRepository) GetOrCreateSubCategory(ctx context.Context, categoryID int64, name string) (model.SubCategory, error) {
	var sc model.SubCategory

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("category_id = ? AND name = ?", categoryID, name).First(&sc).Error
		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		newSub := model.SubCategory{CategoryID: categoryID, Name: name}
		if err := tx.Create(&newSub).Error; err != nil {
			retryErr := tx.Where("category_id = ? AND name = ?", categoryID, name).First(&sc).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		sc = newSub
		return nil
	})

	if err != nil {
		return model.SubCategory{}, err
	}
	return sc, nil
}
