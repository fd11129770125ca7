package models

import "gorm.io/gorm"

// Customer - запись в минимальном реестре клиентов.
type Customer struct {
	gorm.Model
	FirstName string `json:"first_name" gorm:"size:100;not null"`
	LastName  string `json:"last_name" gorm:"size:100;not null"`
	Email     string `json:"email" gorm:"uniqueIndex;size:254;not null"`
	Phone     string `json:"phone" gorm:"size:20"`
}
