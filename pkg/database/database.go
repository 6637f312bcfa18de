package database

import (
	"fmt"
	"log"

	"drouple_backend/internal/config"
	"drouple_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// Duplicate-key violations surface as gorm.ErrDuplicatedKey so the
		// pathway engine can treat them as "already recorded".
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Church{},
		&model.User{},
		&model.Pathway{},
		&model.PathwayStep{},
		&model.PathwayEnrollment{},
		&model.PathwayProgress{},
		&model.Service{},
		&model.ServiceCheckin{},
		&model.LifeGroup{},
		&model.GroupMembership{},
		&model.Event{},
		&model.EventRSVP{},
		&model.Announcement{},
	)

	if err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}
