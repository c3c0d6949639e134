package models

import "time"

// User identifies a practicing speaker. Authentication lives in the outer
// layer; the core only needs the identity row to validate session uploads.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}
