package model

import "time"

// Recognized structured setting keys. Everything else is an opaque string.
const (
	SettingTaxRate           = "tax_rate"
	SettingProductCategories = "product_categories"
)

// Setting is a key-value configuration row. Structured values are
// JSON-encoded at rest (product_categories is a JSON string array).
type Setting struct {
	SettingKey   string `gorm:"primaryKey"`
	SettingValue string `gorm:"not null"`
	Description  *string
	UpdatedAt    time.Time
}

func (Setting) TableName() string { return "settings" }
