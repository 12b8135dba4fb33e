package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"campusevents/internal/bookings"
	"campusevents/internal/events"
	"campusevents/internal/shared/config"
	"campusevents/internal/shared/database"
	"campusevents/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	clearOnly := flag.Bool("clear", false, "truncate all tables and exit without seeding")
	flag.Parse()

	fmt.Println("🌱 Starting Campus Events Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	if *clearOnly {
		fmt.Println("\n🎉 Clear completed! Database is empty.")
		return
	}

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(cfg.Auditorium); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"auditorium_bookings",
		"tickets",
		"events",
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

// SeedAll seeds one user per role, a handful of events, and a pending
// auditorium booking request.
func (s *Seeder) SeedAll(auditorium config.AuditoriumConfig) error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedEvents(userIDs["organizer"], auditorium); err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	if err := s.SeedBookings(userIDs["organizer"]); err != nil {
		return fmt.Errorf("failed to seed bookings: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

// SeedUsers creates one user per role, all with password "qwerty"
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key        string
		firstName  string
		lastName   string
		email      string
		department string
		role       users.Role
	}{
		{"admin", "Admin", "User", "admin@campusevents.edu", "Administration", users.RoleAdmin},
		{"manager", "Asha", "Nair", "auditorium.manager@campusevents.edu", "Facilities", users.RoleAuditoriumManager},
		{"organizer", "Rohan", "Mehta", "organizer@campusevents.edu", "Computer Science", users.RoleOrganizer},
		{"student", "Priya", "Iyer", "student@campusevents.edu", "Electronics", users.RoleStudent},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:         uuid.New(),
			FirstName:  userData.firstName,
			LastName:   userData.lastName,
			Email:      userData.email,
			Password:   string(hashedPassword),
			Role:       userData.role,
			Department: userData.department,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedEvents creates sample events across campus venues
func (s *Seeder) SeedEvents(organizerID uuid.UUID, auditorium config.AuditoriumConfig) error {
	fmt.Println("  🎪 Seeding events...")

	eventsData := []struct {
		title       string
		description string
		department  string
		venue       string
		startTime   string
		endTime     string
		totalSeats  int
		daysFromNow int
	}{
		{
			title:       "Annual Tech Symposium",
			description: "Student paper presentations and invited industry talks.",
			department:  "Computer Science",
			venue:       auditorium.Venue,
			startTime:   "10:00",
			endTime:     "13:00",
			totalSeats:  auditorium.Capacity,
			daysFromNow: 14,
		},
		{
			title:       "Robotics Workshop",
			description: "Hands-on session on line followers and embedded control.",
			department:  "Electronics",
			venue:       "Lab Block 2",
			startTime:   "14:00",
			endTime:     "17:00",
			totalSeats:  60,
			daysFromNow: 7,
		},
		{
			title:       "Cultural Night Auditions",
			description: "Open auditions for the annual cultural fest lineup.",
			department:  "Student Council",
			venue:       "Seminar Hall A",
			startTime:   "16:00",
			endTime:     "19:00",
			totalSeats:  120,
			daysFromNow: 10,
		},
		{
			title:       "Placement Prep Bootcamp",
			description: "Mock interviews and aptitude practice for final years.",
			department:  "Training & Placement",
			venue:       "Seminar Hall B",
			startTime:   "09:00",
			endTime:     "12:00",
			totalSeats:  80,
			daysFromNow: 21,
		},
	}

	for _, eventData := range eventsData {
		eventDate := time.Now().AddDate(0, 0, eventData.daysFromNow)
		event := events.Event{
			ID:          uuid.New(),
			Title:       eventData.title,
			Description: eventData.description,
			Department:  eventData.department,
			EventDate:   time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, time.UTC),
			StartTime:   eventData.startTime,
			EndTime:     eventData.endTime,
			Venue:       eventData.venue,
			TotalSeats:  eventData.totalSeats,
			Status:      events.StatusOpen,
			CreatedBy:   organizerID,
		}

		if err := s.db.PostgreSQL.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create event %s: %w", event.Title, err)
		}

		fmt.Printf("    ✅ Created event: %s @ %s\n", event.Title, event.Venue)
	}

	return nil
}

// SeedBookings creates one pending auditorium request awaiting review
func (s *Seeder) SeedBookings(requesterID uuid.UUID) error {
	fmt.Println("  📋 Seeding auditorium bookings...")

	bookingDate := time.Now().AddDate(0, 0, 28)
	booking := bookings.AuditoriumBooking{
		ID:               uuid.New(),
		Purpose:          "Department Freshers Welcome",
		Department:       "Computer Science",
		EventDate:        time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:        "15:00",
		EndTime:          "18:00",
		ExpectedAudience: 300,
		Status:           bookings.StatusPending,
		RequestedBy:      requesterID,
	}

	if err := s.db.PostgreSQL.Create(&booking).Error; err != nil {
		return fmt.Errorf("failed to create booking %s: %w", booking.Purpose, err)
	}

	fmt.Printf("    ✅ Created booking request: %s (%s)\n", booking.Purpose, booking.Status)
	return nil
}
