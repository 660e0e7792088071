package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	_, ok := IsValidDate("2025-02-28")
	assert.True(t, ok)
	_, ok = IsValidDate("2025-02-30")
	assert.False(t, ok)
	_, ok = IsValidDate("28/02/2025")
	assert.False(t, ok)
}

type sample struct {
	Name   string `json:"holiday_name" validate:"required,max=10"`
	Email  string `json:"emp_mail_id" validate:"omitempty,email"`
	Status string `json:"status" validate:"oneof=Approved Rejected"`
}

func TestStruct_UsesJSONNames(t *testing.T) {
	errs := Struct(sample{Name: "", Email: "nope", Status: "Pending"})
	require.Len(t, errs, 3)

	m := errs.ToMap()
	assert.Equal(t, "holiday_name is required", m["holiday_name"])
	assert.Equal(t, "emp_mail_id must be a valid email", m["emp_mail_id"])
	assert.Equal(t, "status must be one of [Approved Rejected]", m["status"])
}

func TestStruct_Valid(t *testing.T) {
	errs := Struct(sample{Name: "Diwali", Status: "Approved"})
	assert.Nil(t, errs)
	assert.NoError(t, errs.Err())
}

func TestValidationErrors_Err(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())

	errs.Add("start_date", "start_date is required")
	err := errs.Err()
	require.Error(t, err)
	assert.Equal(t, "start_date: start_date is required", err.Error())
}
