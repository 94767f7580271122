package models

import "gorm.io/datatypes"

// Resume is owned 1:1 by a candidate. Applications reference its URL at
// apply time; they do not follow later re-uploads.
type Resume struct {
	BaseModel
	UserID      string `gorm:"not null;uniqueIndex"`
	URL         string `gorm:"not null"`
	FileName    string
	Size        int64
	ContentType string

	Education  string
	Experience string
	Skills     datatypes.JSON `gorm:"type:jsonb"`
}
