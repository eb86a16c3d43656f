package database

import (
	"errors"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type note struct {
	ID   int64 `gorm:"primaryKey"`
	Body string
}

func gormEntries(hook *logtest.Hook) []string {
	var out []string
	for _, e := range hook.AllEntries() {
		if e.Data["component"] == "gorm" {
			out = append(out, e.Message)
		}
	}
	return out
}

func TestConnect_SilentOnRecordNotFound(t *testing.T) {
	log, hook := logtest.NewNullLogger()

	db, err := Connect(":memory:", log)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&note{}))
	hook.Reset()

	var n note
	err = db.First(&n, 42).Error
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Empty(t, gormEntries(hook))

	err = db.Table("missing_table").First(&n).Error
	require.Error(t, err)

	logged := gormEntries(hook)
	require.Len(t, logged, 1)
	assert.True(t, strings.Contains(logged[0], "no such table"), logged[0])
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://u:p@localhost/db"))
	assert.True(t, IsPostgres("postgresql://localhost/db"))
	assert.False(t, IsPostgres("file:eventhall.db"))
}
