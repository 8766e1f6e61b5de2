package repository

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"olicore/internal/domain/entity"
)

// NewPostgresDB opens the connection and migrates the tables this service
// owns. The users table belongs to the account service and is not migrated
// here.
func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&entity.Friendship{},
		&entity.Conversation{},
		&entity.ConversationParticipant{},
		&entity.Message{},
		&entity.DeviceToken{},
		&entity.Notification{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
