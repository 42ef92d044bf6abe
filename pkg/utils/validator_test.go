package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Name  string `validate:"required,min=1,max=5"`
	Score int    `validate:"gte=1,lte=10"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(sampleRequest{Name: "", Score: 11})

	assert.Equal(t, "This field is required", errs["Name"])
	assert.Equal(t, "Must be at most 10", errs["Score"])
	assert.Nil(t, ValidateStruct(sampleRequest{Name: "ok", Score: 3}))
}

func TestPageBounds(t *testing.T) {
	start, end := PageBounds(5, 2, 10)
	assert.Equal(t, 2, start)
	assert.Equal(t, 5, end)

	start, end = PageBounds(5, 10, 10)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
	assert.Equal(t, 1, CalculateTotalPages(10, 10))
	assert.Equal(t, 2, CalculateTotalPages(11, 10))
}

func TestFormatValidationErrorsIsSorted(t *testing.T) {
	msg := FormatValidationErrors(map[string]string{"Score": "Must be at most 10", "Name": "This field is required"})

	assert.Equal(t, "Name: This field is required; Score: Must be at most 10", msg)
}
