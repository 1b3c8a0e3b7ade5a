package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// AuditLog is one human-readable entry per mutating operation. Downstream
// consumers (the admin log viewer) only ever read these, so the record is
// write-once.
type AuditLog struct {
	BaseModel
	Tenancy
	Action  string         `gorm:"type:varchar(100);not null" json:"action"`
	User    string         `gorm:"type:varchar(255)" json:"user"`
	UserID  string         `gorm:"type:varchar(64);index" json:"user_id"`
	Details datatypes.JSON `json:"details,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditDetails marshals a detail payload for an AuditLog entry. Marshalling
// a map of strings and numbers cannot fail, so the error is dropped.
func AuditDetails(details map[string]interface{}) datatypes.JSON {
	b, _ := json.Marshal(details)
	return datatypes.JSON(b)
}
