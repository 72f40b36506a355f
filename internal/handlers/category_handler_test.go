package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"contas/internal/dto"
	apperrors "contas/internal/errors"
	"contas/internal/models"
	"contas/internal/services"
	"contas/internal/services/service_mocks"
	"contas/internal/validation"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestCategoryHandler(t *testing.T) {
	suite.Run(t, new(CategoryHandlerSuite))
}

type CategoryHandlerSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	categoryService *service_mocks.MockCategoryServiceInterface
	handler         *CategoryHandler
	e               *echo.Echo
	userID          uuid.UUID
}

func (s *CategoryHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.categoryService = service_mocks.NewMockCategoryServiceInterface(s.ctrl)
	s.handler = NewCategoryHandler(s.categoryService)
	s.e = newTestEcho()
	s.userID = uuid.New()
}

func (s *CategoryHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CategoryHandlerSuite) TestListCategories() {
	categories := []models.Category{
		{ID: uuid.New(), Name: "Alimentação", Color: "#E53935"},
		{ID: uuid.New(), Name: "Moradia"},
	}
	s.categoryService.EXPECT().ListCategories(gomock.Any()).Return(categories, nil)

	c, rec := newContext(s.e, http.MethodGet, "/api/v1/categories", nil, s.userID)
	s.NoError(s.handler.ListCategories(c))
	s.Equal(http.StatusOK, rec.Code)

	var got []dto.CategoryResponse
	decodeData(s.T(), rec, &got)
	s.Len(got, 2)
	s.Equal("Alimentação", got[0].Name)
	s.Equal("#E53935", got[0].Color)
	s.Contains(rec.Body.String(), `"meta":{"total":2}`)
}

func (s *CategoryHandlerSuite) TestListCategories_Empty() {
	s.categoryService.EXPECT().ListCategories(gomock.Any()).Return(nil, nil)

	c, rec := newContext(s.e, http.MethodGet, "/api/v1/categories", nil, s.userID)
	s.NoError(s.handler.ListCategories(c))
	s.Contains(rec.Body.String(), `"data":[]`)
}

func (s *CategoryHandlerSuite) TestGetCategory() {
	id := uuid.New()

	s.Run("found", func() {
		s.categoryService.EXPECT().GetCategory(id).Return(&models.Category{ID: id, Name: "Lazer"}, nil)

		c, rec := newContext(s.e, http.MethodGet, "/", nil, s.userID)
		s.NoError(s.handler.GetCategory(withID(c, id.String())))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("not found", func() {
		s.categoryService.EXPECT().GetCategory(id).Return(nil, services.ErrCategoryNotFound)

		c, rec := newContext(s.e, http.MethodGet, "/", nil, s.userID)
		s.NoError(s.handler.GetCategory(withID(c, id.String())))
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal(string(apperrors.CategoryNotFound), decodeError(s.T(), rec).Error.Code)
	})

	s.Run("bad id", func() {
		c, rec := newContext(s.e, http.MethodGet, "/", nil, s.userID)
		s.NoError(s.handler.GetCategory(withID(c, "42")))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(string(apperrors.ValidationInvalidID), decodeError(s.T(), rec).Error.Code)
	})
}

func (s *CategoryHandlerSuite) TestCreateCategory() {
	body := dto.CategoryRequest{Name: "Transporte", Icon: "directions_car", Color: "#1E88E5"}
	created := &models.Category{ID: uuid.New(), Name: body.Name, Icon: body.Icon, Color: body.Color}

	s.categoryService.EXPECT().
		CreateCategory(&body, s.userID, gomock.Any(), gomock.Any()).
		Return(created, nil)

	c, rec := newContext(s.e, http.MethodPost, "/api/v1/categories", body, s.userID)
	s.NoError(s.handler.CreateCategory(c))
	s.Equal(http.StatusCreated, rec.Code)

	var got dto.CategoryResponse
	decodeData(s.T(), rec, &got)
	s.Equal(created.ID.String(), got.ID)
}

func (s *CategoryHandlerSuite) TestCreateCategory_Validation() {
	c, _ := newContext(s.e, http.MethodPost, "/api/v1/categories",
		map[string]string{"name": "", "color": "blue"}, s.userID)

	fields, ok := validation.FieldErrors(s.handler.CreateCategory(c))
	s.Require().True(ok)
	s.Equal("is required", fields["name"])
	s.Contains(fields, "color")
}

func (s *CategoryHandlerSuite) TestCreateCategory_Unauthenticated() {
	c, rec := newContext(s.e, http.MethodPost, "/api/v1/categories", dto.CategoryRequest{Name: "x"}, uuid.Nil)
	s.NoError(s.handler.CreateCategory(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *CategoryHandlerSuite) TestUpdateCategory_Invalid() {
	id := uuid.New()
	s.categoryService.EXPECT().
		UpdateCategory(id, gomock.Any(), s.userID, gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: %v", services.ErrInvalidCategory, models.ErrCategoryNameRequired))

	c, rec := newContext(s.e, http.MethodPut, "/", dto.CategoryRequest{Name: "   "}, s.userID)
	s.NoError(s.handler.UpdateCategory(withID(c, id.String())))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(string(apperrors.CategoryInvalid), decodeError(s.T(), rec).Error.Code)
}

func (s *CategoryHandlerSuite) TestDeleteCategory() {
	id := uuid.New()

	s.Run("deleted", func() {
		s.categoryService.EXPECT().DeleteCategory(id, s.userID, gomock.Any(), gomock.Any()).Return(nil)

		c, rec := newContext(s.e, http.MethodDelete, "/", nil, s.userID)
		s.NoError(s.handler.DeleteCategory(withID(c, id.String())))
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("repository failure", func() {
		s.categoryService.EXPECT().DeleteCategory(id, s.userID, gomock.Any(), gomock.Any()).Return(errors.New("boom"))

		c, rec := newContext(s.e, http.MethodDelete, "/", nil, s.userID)
		s.NoError(s.handler.DeleteCategory(withID(c, id.String())))
		s.Equal(http.StatusInternalServerError, rec.Code)
	})
}
