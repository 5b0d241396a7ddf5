package models

// ImageModel is a stored-media reference. Src points at the blob store
// object; Used marks the image as referenced by an article or paragraph so
// the janitor can garbage-collect abandoned uploads.
type ImageModel struct {
	Base
	Src  string `json:"src"  gorm:"not null"`
	Alt  string `json:"alt"`
	Cite string `json:"cite"`
	Used bool   `json:"used" gorm:"default:false;index"`
}

func (ImageModel) TableName() string { return "images" }
