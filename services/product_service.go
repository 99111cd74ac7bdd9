package services

import (
	"errors"

	"github.com/iismail06/Skincare-tracker-SKYN/models"

	"gorm.io/gorm"
)

// ProductService owns the product write paths that touch other tables: the
// nulling delete and the import upsert.
type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// Delete removes the user's product. Routine steps referencing it keep their
// identity and history; their product link is cleared, not cascaded. The weak
// reference is enforced here in code so the difference from the owning
// routine→step cascade stays visible.
func (s *ProductService) Delete(userID, productID uint) error {
	var product models.Product
	err := s.db.Where("id = ? AND user_id = ?", productID, userID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.RoutineStep{}).
			Where("product_id = ?", product.ID).
			Update("product_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
}

// ImportResult counts the outcome of an import run.
type ImportResult struct {
	Created int
	Updated int
	Skipped int
}

// ImportProduct upserts one fetched product into the user's catalog keyed by
// (user, name, brand): creates when new, updates when overwrite is set,
// otherwise skips. The counts accumulate into res.
func (s *ProductService) ImportProduct(userID uint, incoming models.Product, overwrite bool, res *ImportResult) error {
	var existing models.Product
	err := s.db.
		Where("user_id = ? AND name = ? AND brand = ?", userID, incoming.Name, incoming.Brand).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		incoming.UserID = userID
		if err := s.db.Create(&incoming).Error; err != nil {
			return err
		}
		res.Created++
		return nil
	}
	if err != nil {
		return err
	}

	if !overwrite {
		res.Skipped++
		return nil
	}

	existing.ProductType = incoming.ProductType
	existing.Ingredients = incoming.Ingredients
	existing.Description = incoming.Description
	existing.ExternalID = incoming.ExternalID
	if err := s.db.Save(&existing).Error; err != nil {
		return err
	}
	res.Updated++
	return nil
}
