package main

import (
	"flag"
	"fmt"
	"time"

	"dorm-link/pkg/config"
	"dorm-link/pkg/database"
	"dorm-link/pkg/logger"
	"dorm-link/pkg/models"
	"dorm-link/pkg/queue"
	notificationModel "dorm-link/services/notification/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	var (
		cfgPath   string
		demoEvent bool
	)
	flag.StringVar(&cfgPath, "config", "", "Path to config file")
	flag.BoolVar(&demoEvent, "demo-event", false, "Publish a demo event.created through RabbitMQ after seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedDatabase(db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	if demoEvent {
		if err := publishDemoEvent(cfg, db, log); err != nil {
			log.Error("Failed to publish demo event: %v", err)
			panic(err)
		}
	}

	log.Info("Database seeded successfully!")
}

// publishDemoEvent pushes one event.created through the broker so a fresh
// stack has something flowing end to end.
func publishDemoEvent(cfg *config.Config, db *gorm.DB, log *logger.Logger) error {
	var owner models.User
	if err := db.Where("role = ?", models.RoleAdmin).First(&owner).Error; err != nil {
		return fmt.Errorf("no seeded admin to own the demo event: %w", err)
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()

	event := &queue.EventCreated{
		EventID:  uuid.New().String(),
		Name:     "Welcome BBQ",
		Date:     time.Now().Add(72 * time.Hour),
		OwnerID:  owner.ID,
		IsPublic: true,
	}
	if err := queueClient.PublishEventCreated(event); err != nil {
		return fmt.Errorf("failed to publish event.created: %w", err)
	}

	log.Info("Published demo event %q owned by %s", event.Name, owner.Username)
	return nil
}

func seedDatabase(db *gorm.DB, log *logger.Logger) error {
	testUsers := []struct {
		email    string
		username string
		password string
		role     models.UserRole
	}{
		{"alice@dorm.test", "alice", "password123", models.RoleResident},
		{"bob@dorm.test", "bob", "password123", models.RoleResident},
		{"charlie@dorm.test", "charlie", "password123", models.RoleResident},
		{"inspector@dorm.test", "inspector", "password123", models.RoleInspector},
		{"admin@dorm.test", "admin", "password123", models.RoleAdmin},
	}

	userIDs := make([]string, 0, len(testUsers))

	for _, userData := range testUsers {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)

		user := &models.User{
			Email:    userData.email,
			Username: userData.username,
			Password: string(hashedPassword),
			Role:     userData.role,
			IsActive: true,
		}

		if err := user.BeforeCreate(nil); err != nil {
			return fmt.Errorf("failed to generate user ID: %w", err)
		}

		var existingUser models.User
		result := db.Where("email = ? OR username = ?", user.Email, user.Username).First(&existingUser)
		if result.Error == nil {
			log.Info("User %s already exists, skipping", user.Username)
			userIDs = append(userIDs, existingUser.ID)
			continue
		}

		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", user.Username, err)
		}
		log.Info("Created user %s", user.Username)
		userIDs = append(userIDs, user.ID)
	}

	// Everyone starts with both notification types on and telegram enabled,
	// matching what the settings UI shows for a fresh account.
	for _, userID := range userIDs {
		for _, notifType := range []string{"events", "inspection_results"} {
			pref := notificationModel.PreferenceModel{
				ID:      uuid.New().String(),
				UserID:  userID,
				Type:    notifType,
				Enabled: true,
			}
			result := db.Where("user_id = ? AND type = ?", userID, notifType).
				FirstOrCreate(&pref)
			if result.Error != nil {
				return fmt.Errorf("failed to seed preference for user %s: %w", userID, result.Error)
			}
		}

		binding := notificationModel.ChannelBindingModel{
			ID:      uuid.New().String(),
			UserID:  userID,
			Channel: "telegram",
			Enabled: true,
		}
		result := db.Where("user_id = ? AND channel = ?", userID, "telegram").
			FirstOrCreate(&binding)
		if result.Error != nil {
			return fmt.Errorf("failed to seed channel binding for user %s: %w", userID, result.Error)
		}
	}

	log.Info("Seeded %d users with default notification settings", len(userIDs))
	return nil
}
