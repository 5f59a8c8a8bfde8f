package database

import (
	"villagestay/internal/bookings"
	"villagestay/internal/listings"
	"villagestay/internal/payments"
	"villagestay/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&listings.Listing{},
		&bookings.Booking{},
		&payments.PaymentIntent{},
		&payments.Dispatch{},
	)
}
