package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/presensia/presensia-backend/internal/model"
	"github.com/presensia/presensia-backend/internal/response"
	"github.com/presensia/presensia-backend/internal/service"
	"github.com/presensia/presensia-backend/internal/validator"
)

// PersonHandler manages the roster of recognizable people.
type PersonHandler struct {
	personService *service.PersonService
}

// NewPersonHandler creates a new PersonHandler.
func NewPersonHandler(personService *service.PersonService) *PersonHandler {
	return &PersonHandler{personService: personService}
}

// Register godoc
// POST /api/v1/people
func (h *PersonHandler) Register(c *gin.Context) {
	var req model.RegisterPersonRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	person, err := h.personService.Register(c.Request.Context(), req.Name, req.Role)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, person)
}

// List godoc
// GET /api/v1/people
func (h *PersonHandler) List(c *gin.Context) {
	people, err := h.personService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, people)
}
