package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Store struct {
	DB *gorm.DB
}

func NewStore(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{DB: gdb}, nil
}

// AutoMigrate creates or updates the schema for every model. Intended
// for development and tests; production schemas are managed outside.
func (s *Store) AutoMigrate() error {
	return s.DB.AutoMigrate(
		&ServiceLineModel{},
		&LocationModel{},
		&EquipmentModel{},
		&AuditModel{},
		&DocumentCheckModel{},
		&ConditionCheckModel{},
		&RoutineCheckModel{},
		&AuditEquipmentModel{},
		&IssueModel{},
		&IssueCommentModel{},
		&SelectionBatchModel{},
		&SelectionItemModel{},
	)
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
