package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	CompanyName string `json:"companyName" validate:"notblank"`
	Email       string `json:"email" validate:"omitempty,email"`
	Password    string `json:"password" validate:"omitempty,min=8"`
}

func TestStruct_ReportsJSONFieldName(t *testing.T) {
	err := Struct(sample{CompanyName: "   "})
	require.Error(t, err)

	var fe FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "companyName", fe.Field)
	assert.Equal(t, "companyName is required", err.Error())
}

func TestStruct_Messages(t *testing.T) {
	err := Struct(sample{CompanyName: "Acme", Email: "nope"})
	require.Error(t, err)
	assert.Equal(t, "email must be a valid email", err.Error())

	err = Struct(sample{CompanyName: "Acme", Password: "short"})
	require.Error(t, err)
	assert.Equal(t, "password must be at least 8 characters", err.Error())
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(sample{CompanyName: "Acme", Email: "a@b.co"}))
}
