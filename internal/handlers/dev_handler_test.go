package handlers

import (
	"net/http"
	"testing"

	"contas/internal/dto"
	"contas/internal/services/service_mocks"
	"contas/internal/validation"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevHandler_GenerateSampleData(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	generator := service_mocks.NewMockSampleDataGeneratorInterface(ctrl)
	generator.EXPECT().
		Generate(gomock.Any(), userID, &dto.SampleDataRequest{Months: 6, EntriesPerMonth: 4}, gomock.Any(), gomock.Any()).
		Return(&dto.SampleDataResponse{Categories: 5, Expenses: 24, Incomes: 6}, nil)

	c, rec := newContext(newTestEcho(), http.MethodPost, "/api/v1/dev/sample-data",
		map[string]int{"months": 6, "entries_per_month": 4}, userID)
	require.NoError(t, NewDevHandler(generator).GenerateSampleData(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got dto.SampleDataResponse
	decodeData(t, rec, &got)
	assert.Equal(t, 24, got.Expenses)
}

func TestDevHandler_GenerateSampleData_EmptyBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	generator := service_mocks.NewMockSampleDataGeneratorInterface(ctrl)
	generator.EXPECT().
		Generate(gomock.Any(), userID, &dto.SampleDataRequest{}, gomock.Any(), gomock.Any()).
		Return(&dto.SampleDataResponse{}, nil)

	c, rec := newContext(newTestEcho(), http.MethodPost, "/api/v1/dev/sample-data", nil, userID)
	require.NoError(t, NewDevHandler(generator).GenerateSampleData(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDevHandler_GenerateSampleData_OutOfRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, _ := newContext(newTestEcho(), http.MethodPost, "/api/v1/dev/sample-data",
		map[string]int{"months": 60}, uuid.New())
	err := NewDevHandler(service_mocks.NewMockSampleDataGeneratorInterface(ctrl)).GenerateSampleData(c)

	fields, ok := validation.FieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "months")
}
