package repository

import (
	"github.com/Behyna/pawn-services/internal/model"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.PawnTransaction{},
		&model.Payment{},
		&model.Extension{},
		&model.AuditEntry{},
	)
}
