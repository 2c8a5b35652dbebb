package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := map[error]int{
		fmt.Errorf("%w: radius must be positive", ErrValidation): http.StatusBadRequest,
		fmt.Errorf("analysis abc: %w", ErrNotFound):              http.StatusNotFound,
		ErrForbidden:                      http.StatusForbidden,
		ErrConflict:                       http.StatusConflict,
		errors.New("connection refused"): http.StatusInternalServerError,
	}

	for err, want := range cases {
		assert.Equal(t, want, Status(err), err.Error())
	}
}

func TestRespond_HidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Respond(c, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestRespond_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Respond(c, fmt.Errorf("%w: latitude out of range", ErrValidation))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"validation failed: latitude out of range"}`, w.Body.String())
}

func TestInvalid_UsesJSONFieldNames(t *testing.T) {
	type req struct {
		Latitude *float64 `json:"latitude" validate:"required,min=-90,max=90"`
		Kind     string   `json:"analysisType" validate:"oneof=a b"`
	}

	lat := 120.0
	err := Invalid(NewValidator().Struct(req{Latitude: &lat, Kind: "c"}))

	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "latitude must satisfy max=90")
	assert.Contains(t, err.Error(), "analysisType must be one of [a b]")
}

func TestInvalid_PlainError(t *testing.T) {
	err := Invalid(errors.New("radius must be positive"))
	assert.EqualError(t, err, "validation failed: radius must be positive")
}
