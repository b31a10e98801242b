package database

import (
	"boxoffice/internal/bookings"
	"boxoffice/internal/customers"
	"boxoffice/internal/layouts"
	"boxoffice/internal/shows"
	"boxoffice/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&layouts.Layout{},
		&layouts.Section{},
		&shows.Show{},
		&customers.Customer{},
		&bookings.Booking{},
		&bookings.BookingSeat{},
		&bookings.Ticket{},
	)
}
