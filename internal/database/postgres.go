package database

import (
	"fmt"
	"time"

	"github.com/vladimiradmaev/fitness-helper/internal/config"
	"github.com/vladimiradmaev/fitness-helper/internal/database/migrations"
	"github.com/vladimiradmaev/fitness-helper/internal/logger"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type User struct {
	TelegramID  int64 `gorm:"primaryKey;autoIncrement:false"`
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Training struct {
	ID           uint  `gorm:"primaryKey"`
	UserID       int64 `gorm:"index;not null"`
	StartedAt    time.Time
	EndedAt      *time.Time `gorm:"index"`
	Measurements string
	Comment      string
	Exercises    []TrainingExercise `gorm:"constraint:OnDelete:CASCADE"`
}

type SetRow struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// TrainingExercise stores both exercise kinds; unused columns stay NULL
type TrainingExercise struct {
	ID         uint   `gorm:"primaryKey"`
	TrainingID uint   `gorm:"not null;uniqueIndex:idx_training_draft,priority:1"`
	DraftID    string `gorm:"size:36;not null;uniqueIndex:idx_training_draft,priority:2"`
	Position   int    `gorm:"not null"`
	Kind       string `gorm:"size:16;not null"`
	Name       string `gorm:"not null"`

	Sets datatypes.JSONSlice[SetRow]

	DurationMin    *int
	CardioFormat   *string `gorm:"size:16"`
	DistanceMeters *float64
	SpeedKmh       *float64
	Details        string

	CreatedAt time.Time
}

type Measurement struct {
	ID         uint  `gorm:"primaryKey"`
	UserID     int64 `gorm:"index;not null"`
	RecordedAt time.Time
	Text       string
}

type CustomExercise struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    int64  `gorm:"not null;uniqueIndex:idx_custom_exercise,priority:1"`
	Kind      string `gorm:"size:16;not null;uniqueIndex:idx_custom_exercise,priority:2"`
	Name      string `gorm:"not null;uniqueIndex:idx_custom_exercise,priority:3"`
	CreatedAt time.Time
}

// ConversationState is one row per user holding the state machine position
type ConversationState struct {
	UserID    int64 `gorm:"primaryKey;autoIncrement:false"`
	State     string
	Context   datatypes.JSON
	UpdatedAt time.Time
}

// Models lists every table managed by AutoMigrate
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Training{},
		&TrainingExercise{},
		&Measurement{},
		&CustomExercise{},
		&ConversationState{},
	}
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("Database connection established and migrations completed", "host", cfg.Host, "db", cfg.DBName)
	return db, nil
}

// Migrate creates tables from the models, then applies the embedded SQL migrations
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	if err := migrations.LoadSQLMigrations(); err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
