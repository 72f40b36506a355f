package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entryInput struct {
	Amount     string `json:"amount" validate:"required,decimal_amount"`
	Type       string `json:"expense_type" validate:"omitempty,transaction_type"`
	Recurrence string `json:"recurrence_period" validate:"omitempty,recurrence_period"`
}

type queryInput struct {
	Type string `query:"type" validate:"omitempty,transaction_type"`
}

func TestDecimalAmount(t *testing.T) {
	v := GetValidator().GetValidate()

	testCases := []struct {
		amount string
		valid  bool
	}{
		{"10", true},
		{"10.5", true},
		{"1500.00", true},
		{" 42.10 ", true},
		{"12.500", true},
		{"99999999.99", true},
		{"0", false},
		{"-3.20", false},
		{"1.005", false},
		{"100000000", false},
		{"abc", false},
		{"1,50", false},
	}

	for _, tc := range testCases {
		t.Run(tc.amount, func(t *testing.T) {
			err := v.Struct(entryInput{Amount: tc.amount})
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestTransactionTypeAndRecurrence(t *testing.T) {
	v := GetValidator().GetValidate()

	assert.NoError(t, v.Struct(entryInput{Amount: "1", Type: "one_time"}))
	assert.NoError(t, v.Struct(entryInput{Amount: "1", Type: "ONETIME"}))
	assert.NoError(t, v.Struct(entryInput{Amount: "1", Type: "INSTALLMENT", Recurrence: "monthly"}))
	assert.Error(t, v.Struct(entryInput{Amount: "1", Type: "weekly"}))
	assert.Error(t, v.Struct(entryInput{Amount: "1", Recurrence: "WEEKLY"}))
}

func TestFieldNamesFollowTags(t *testing.T) {
	v := NewValidator().GetValidate()

	err := v.Struct(entryInput{Amount: "x", Type: "bad"})
	require.Error(t, err)
	var fields []string
	for _, fe := range err.(validator.ValidationErrors) {
		fields = append(fields, fe.Field())
	}
	assert.ElementsMatch(t, []string{"amount", "expense_type"}, fields)

	err = v.Struct(queryInput{Type: "bad"})
	require.Error(t, err)
	assert.Equal(t, "type", err.(validator.ValidationErrors)[0].Field())
}

func TestGetValidator_Singleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}

func TestFieldErrors(t *testing.T) {
	err := GetValidator().GetValidate().Struct(entryInput{Amount: "-1", Type: "weekly"})
	require.Error(t, err)

	fields, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "must be a positive amount with at most 2 decimal places", fields["amount"])
	assert.Equal(t, "must be one of: ONE_TIME, RECURRING, INSTALLMENT", fields["expense_type"])

	_, ok = FieldErrors(assert.AnError)
	assert.False(t, ok)
}

func TestFieldErrors_RequiredAndLength(t *testing.T) {
	type profile struct {
		Username string `json:"username" validate:"required,min=3"`
		Email    string `json:"email" validate:"required,email"`
	}

	fields, ok := FieldErrors(GetValidator().GetValidate().Struct(profile{Username: "ab", Email: ""}))
	require.True(t, ok)
	assert.Equal(t, "must be at least 3 characters long", fields["username"])
	assert.Equal(t, "is required", fields["email"])
}
