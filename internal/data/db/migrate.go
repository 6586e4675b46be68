package db

import (
	"fmt"

	types "github.com/yungbote/speakwell-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureLedgerIndexes(db)
}

// EnsureLedgerIndexes adds the lookup indexes the reconciliation and teardown queries lean on.
func EnsureLedgerIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"idx_content_copy_source", `CREATE INDEX IF NOT EXISTS idx_content_copy_source ON content_definition(source_content_id, is_copy);`},
		{"idx_student_assignment_active", `CREATE INDEX IF NOT EXISTS idx_student_assignment_active ON student_assignment(assignment_id, is_active);`},
		{"idx_roster_active", `CREATE INDEX IF NOT EXISTS idx_roster_active ON classroom_student(classroom_id, is_active);`},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}
