package main

import (
	"fmt"
	"log"
	"time"

	"villagestay/internal/bookings"
	"villagestay/internal/listings"
	"villagestay/internal/shared/config"
	"villagestay/internal/shared/database"
	"villagestay/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting VillageStay Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	// Delete in reverse dependency order
	tables := []string{
		"payment_dispatches",
		"payment_intents",
		"bookings",
		"listings",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	// Users first (no dependencies)
	hostIDs, touristIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	// Listings owned by the hosts
	listingIDs, err := s.SeedListings(hostIDs)
	if err != nil {
		return fmt.Errorf("failed to seed listings: %w", err)
	}

	// Demo bookings between tourists and listings
	if err := s.SeedBookings(touristIDs, listingIDs); err != nil {
		return fmt.Errorf("failed to seed bookings: %w", err)
	}

	return nil
}

// SeedUsers creates one admin, two hosts and two tourists. All seeded
// accounts share the password "Password@123".
func (s *Seeder) SeedUsers() (hostIDs, touristIDs []uuid.UUID, err error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Password@123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	seeds := []struct {
		firstName string
		lastName  string
		email     string
		phone     string
		role      users.Role
	}{
		{"Asha", "Verma", "admin@villagestay.com", "+911234500001", users.RoleAdmin},
		{"Ravi", "Patel", "ravi.host@villagestay.com", "+911234500002", users.RoleHost},
		{"Meera", "Nair", "meera.host@villagestay.com", "+911234500003", users.RoleHost},
		{"Arjun", "Singh", "arjun@example.com", "+911234500004", users.RoleTourist},
		{"Priya", "Iyer", "priya@example.com", "+911234500005", users.RoleTourist},
	}

	for _, seed := range seeds {
		user := users.User{
			FirstName: seed.firstName,
			LastName:  seed.lastName,
			Email:     seed.email,
			Phone:     seed.phone,
			Password:  string(hash),
			Role:      seed.role,
		}
		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to create user %s: %w", seed.email, err)
		}
		fmt.Printf("  Created %s user: %s\n", seed.role, seed.email)

		switch seed.role {
		case users.RoleHost:
			hostIDs = append(hostIDs, user.ID)
		case users.RoleTourist:
			touristIDs = append(touristIDs, user.ID)
		}
	}

	return hostIDs, touristIDs, nil
}

// SeedListings creates approved sample listings for each host, plus one
// unapproved listing to exercise the moderation flow.
func (s *Seeder) SeedListings(hostIDs []uuid.UUID) ([]uuid.UUID, error) {
	seeds := []struct {
		hostIdx     int
		title       string
		description string
		location    string
		price       float64
		maxGuests   int
		approved    bool
	}{
		{0, "Riverside Mud House", "Traditional two-room mud house on the banks of the Tunga, home-cooked meals included.", "Agumbe, Karnataka", 1500, 4, true},
		{0, "Spice Garden Cottage", "Cottage inside a working cardamom plantation with guided walks.", "Thekkady, Kerala", 2200, 2, true},
		{1, "Himalayan Stone Homestay", "Stone-and-timber home overlooking apple orchards, wood-fired kitchen.", "Kalpa, Himachal Pradesh", 1800, 6, true},
		{1, "Desert Courtyard Haveli", "Restored haveli rooms around a shared courtyard, camel cart rides on request.", "Khimsar, Rajasthan", 2600, 5, false},
	}

	var listingIDs []uuid.UUID
	for _, seed := range seeds {
		listing := listings.Listing{
			HostID:               hostIDs[seed.hostIdx],
			Title:                seed.title,
			Description:          seed.description,
			Location:             seed.location,
			PricePerNight:        seed.price,
			MaxGuests:            seed.maxGuests,
			IsActive:             true,
			IsApproved:           seed.approved,
			AvailabilityCalendar: listings.Calendar{},
		}
		if err := s.db.PostgreSQL.Create(&listing).Error; err != nil {
			return nil, fmt.Errorf("failed to create listing %q: %w", seed.title, err)
		}
		fmt.Printf("  Created listing: %s (approved=%v)\n", seed.title, seed.approved)

		if seed.approved {
			listingIDs = append(listingIDs, listing.ID)
		}
	}

	return listingIDs, nil
}

// SeedBookings creates a confirmed upcoming stay and a completed past
// stay so dashboards have something to show.
func (s *Seeder) SeedBookings(touristIDs, listingIDs []uuid.UUID) error {
	if len(touristIDs) < 2 || len(listingIDs) < 2 {
		return fmt.Errorf("not enough seeded users or listings for bookings")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	seeds := []struct {
		touristIdx int
		listingIdx int
		checkIn    time.Time
		checkOut   time.Time
		guests     int
		status     bookings.Status
	}{
		{0, 0, today.AddDate(0, 0, 14), today.AddDate(0, 0, 17), 2, bookings.StatusConfirmed},
		{1, 1, today.AddDate(0, 0, -20), today.AddDate(0, 0, -17), 1, bookings.StatusCompleted},
	}

	for _, seed := range seeds {
		var listing listings.Listing
		if err := s.db.PostgreSQL.Where("id = ?", listingIDs[seed.listingIdx]).First(&listing).Error; err != nil {
			return fmt.Errorf("failed to load seeded listing: %w", err)
		}

		ref, err := bookings.GenerateBookingReference(time.Now())
		if err != nil {
			return fmt.Errorf("failed to generate booking reference: %w", err)
		}

		nights := bookings.NightCount(seed.checkIn, seed.checkOut)
		pricing := bookings.ComputePricing(listing.PricePerNight, nights)

		now := time.Now()
		booking := bookings.Booking{
			ListingID:             listing.ID,
			TouristID:             touristIDs[seed.touristIdx],
			HostID:                listing.HostID,
			BookingRef:            ref,
			CheckIn:               seed.checkIn,
			CheckOut:              seed.checkOut,
			Guests:                seed.guests,
			Nights:                nights,
			BaseAmount:            pricing.BaseAmount,
			PlatformFee:           pricing.PlatformFee,
			CommunityContribution: pricing.CommunityContribution,
			HostEarnings:          pricing.HostEarnings,
			TotalAmount:           pricing.TotalAmount,
			Status:                seed.status,
			PaymentStatus:         bookings.PaymentPaid,
			ConfirmedAt:           &now,
		}
		if seed.status == bookings.StatusCompleted {
			booking.CompletedAt = &now
		}

		if err := s.db.PostgreSQL.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking %s: %w", ref, err)
		}

		// Confirmed stays occupy the host calendar, same as the live
		// payment flow.
		if seed.status == bookings.StatusConfirmed {
			if listing.AvailabilityCalendar == nil {
				listing.AvailabilityCalendar = listings.Calendar{}
			}
			listing.AvailabilityCalendar.Block(seed.checkIn, seed.checkOut)
			err := s.db.PostgreSQL.Model(&listings.Listing{}).
				Where("id = ?", listing.ID).
				Update("availability_calendar", listing.AvailabilityCalendar).Error
			if err != nil {
				return fmt.Errorf("failed to block seeded stay dates: %w", err)
			}
		}
		fmt.Printf("  Created %s booking %s (%d nights, total %.2f)\n", seed.status, ref, nights, pricing.TotalAmount)
	}

	return nil
}
