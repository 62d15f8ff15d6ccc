package repo

import (
	"github.com/KNICEX/ask-ai/internal/entity"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(&entity.AskRecord{})
}
