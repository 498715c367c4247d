package seeders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/lojinha/app/models"
	"github.com/shashiranjanraj/lojinha/app/repositories"
)

func init() {
	Register("products", Products)
}

// Products upserts the default catalogue, so running it twice is harmless.
func Products(db *gorm.DB) error {
	products := append([]models.Product(nil), repositories.DefaultProducts...)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "price"}),
	}).Create(&products).Error
}
