package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEditableRowTouch(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	row := NewEditableRow(created)

	assert.NotEqual(t, uuid.Nil, row.ID)
	assert.Equal(t, created, row.CreatedAt)
	assert.Equal(t, created, row.UpdatedAt)

	row.Touch(created.Add(time.Hour))
	assert.Equal(t, created, row.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), row.UpdatedAt)
}
