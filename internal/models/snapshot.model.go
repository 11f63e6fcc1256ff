package models

import "time"

// CollectionSnapshot is the last successfully fetched copy of one
// upstream collection, keyed by resource and visibility scope. It is
// served in place of a live collection when a refresh fails, so list
// pages keep their prior contents instead of going blank.
type CollectionSnapshot struct {
	BaseUUIDModel
	Resource   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_resource_scope" json:"resource"`
	Scope      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_resource_scope" json:"scope"`
	Generation uint64    `gorm:"not null"                                                 json:"generation"`
	FetchedAt  time.Time `gorm:"not null"                                                 json:"fetchedAt"`
	Payload    []byte    `gorm:"type:blob;not null"                                       json:"-"`
}
