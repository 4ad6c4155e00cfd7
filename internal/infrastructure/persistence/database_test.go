package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDatabase_WithTenant(t *testing.T) {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	db := &Database{DB: gormDB}

	t.Run("returns scoped query for valid tenant", func(t *testing.T) {
		scoped := db.WithTenant(uuid.New())
		assert.NotNil(t, scoped)
	})

	t.Run("panics on nil tenant ID", func(t *testing.T) {
		assert.Panics(t, func() {
			db.WithTenant(uuid.Nil)
		})
	})
}
