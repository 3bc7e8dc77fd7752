package seed

import (
	"context"
	"time"

	"lectern/config"
	"lectern/internal/database"
	. "lectern/internal/models"
	"lectern/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func stringPtr(s string) *string {
	return &s
}

func rating(value string) decimal.Decimal {
	d, _ := decimal.NewFromString(value)
	return d
}

// Seed loads a small demo catalog plus a handful of users with enough
// interaction history to exercise every strategy.
func Seed(db database.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	ctx := context.Background()
	repos := repositories.New(db)
	sql := db.SQL

	courses := []Course{
		{
			Code:        "CS101",
			Title:       "Introduction to Programming",
			Department:  "cs",
			Instructor:  "Rivera",
			TimeSlot:    "MWF 09:00",
			Credits:     4,
			Tags:        datatypes.NewJSONSlice([]string{"programming", "beginner"}),
			AvgRating:   rating("4.40"),
			ReviewCount: 182,
		},
		{
			Code:        "CS201",
			Title:       "Data Structures",
			Department:  "cs",
			Instructor:  "Rivera",
			TimeSlot:    "TTh 10:30",
			Credits:     4,
			Tags:        datatypes.NewJSONSlice([]string{"programming", "algorithms"}),
			AvgRating:   rating("4.10"),
			ReviewCount: 141,
		},
		{
			Code:        "CS330",
			Title:       "Machine Learning",
			Department:  "cs",
			Instructor:  "Okafor",
			TimeSlot:    "TTh 14:00",
			Credits:     3,
			Tags:        datatypes.NewJSONSlice([]string{"ml", "statistics", "python"}),
			AvgRating:   rating("4.70"),
			ReviewCount: 96,
		},
		{
			Code:        "MATH210",
			Title:       "Linear Algebra",
			Department:  "math",
			Instructor:  "Chen",
			TimeSlot:    "MWF 11:00",
			Credits:     3,
			Tags:        datatypes.NewJSONSlice([]string{"algebra", "proofs"}),
			AvgRating:   rating("3.90"),
			ReviewCount: 204,
		},
		{
			Code:        "MATH310",
			Title:       "Probability Theory",
			Department:  "math",
			Instructor:  "Chen",
			TimeSlot:    "TTh 09:00",
			Credits:     3,
			Tags:        datatypes.NewJSONSlice([]string{"statistics", "proofs"}),
			AvgRating:   rating("4.20"),
			ReviewCount: 87,
		},
		{
			Code:        "HIST120",
			Title:       "World History to 1500",
			Department:  "history",
			Instructor:  "Baptiste",
			TimeSlot:    "MWF 13:00",
			Credits:     3,
			Tags:        datatypes.NewJSONSlice([]string{"survey", "writing"}),
			AvgRating:   rating("4.00"),
			ReviewCount: 158,
		},
		{
			Code:        "PHIL105",
			Title:       "Logic and Reasoning",
			Department:  "philosophy",
			Instructor:  "Huang",
			TimeSlot:    "TTh 13:00",
			Credits:     3,
			Tags:        datatypes.NewJSONSlice([]string{"logic", "writing"}),
			AvgRating:   rating("4.50"),
			ReviewCount: 73,
		},
	}

	for i := range courses {
		if err := sql.Create(&courses[i]).Error; err != nil {
			return log.Err("failed to create course", err, "code", courses[i].Code)
		}
	}

	// The snapshot cache may still hold the catalog from a previous seed run.
	if err := repos.Course.ClearCatalogCache(ctx); err != nil {
		log.Warn("failed to clear course catalog cache", "error", err)
	}

	users := []User{
		{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     stringPtr("ada@cs.university.edu"),
		},
		{
			FirstName: "Emmy",
			LastName:  "Noether",
			Email:     stringPtr("emmy@math.university.edu"),
		},
		{
			FirstName: "Herodotus",
			LastName:  "Reed",
			Email:     stringPtr("reed@history.university.edu"),
		},
	}

	for i := range users {
		if err := repos.User.Create(ctx, sql, &users[i]); err != nil {
			return log.Err("failed to create user", err, "email", *users[i].Email)
		}
	}

	courseByCode := make(map[string]Course, len(courses))
	for _, course := range courses {
		courseByCode[course.Code] = course
	}

	now := time.Now()
	interactions := []Interaction{
		{UserID: users[0].ID, CourseID: courseByCode["CS101"].ID, Type: InteractionReview, OccurredAt: now.AddDate(0, 0, -20)},
		{UserID: users[0].ID, CourseID: courseByCode["CS201"].ID, Type: InteractionFavorite, OccurredAt: now.AddDate(0, 0, -10)},
		{UserID: users[0].ID, CourseID: courseByCode["MATH210"].ID, Type: InteractionView, OccurredAt: now.AddDate(0, 0, -3)},
		{UserID: users[1].ID, CourseID: courseByCode["MATH210"].ID, Type: InteractionReview, OccurredAt: now.AddDate(0, 0, -15)},
		{UserID: users[1].ID, CourseID: courseByCode["MATH310"].ID, Type: InteractionFavorite, OccurredAt: now.AddDate(0, 0, -8)},
		{UserID: users[1].ID, CourseID: courseByCode["CS201"].ID, Type: InteractionView, OccurredAt: now.AddDate(0, 0, -2)},
		{UserID: users[2].ID, CourseID: courseByCode["HIST120"].ID, Type: InteractionView, OccurredAt: now.AddDate(0, 0, -1)},
	}

	for i := range interactions {
		interactions[i].Weight = interactions[i].Type.DefaultWeight()
		if err := sql.Create(&interactions[i]).Error; err != nil {
			return log.Err("failed to create interaction", err)
		}
	}

	log.Info(
		"Seed complete",
		"courses", len(courses),
		"users", len(users),
		"interactions", len(interactions),
	)
	return nil
}
