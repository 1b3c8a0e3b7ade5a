package model

// Customer is deduplicated by phone number on bulk import; uniqueness is a
// convention enforced by pre-query, not by the schema.
type Customer struct {
	BaseModel
	Tenancy
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone   string `gorm:"type:varchar(20);index" json:"phone"`
	Address string `gorm:"type:varchar(500)" json:"address"`

	// Delivery coordinates, filled manually or split from a combined
	// "lat,lng" spreadsheet column on import.
	Lat float64 `gorm:"default:0" json:"lat"`
	Lng float64 `gorm:"default:0" json:"lng"`

	Note string `gorm:"type:text" json:"note,omitempty"`
}
