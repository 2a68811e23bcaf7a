package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "lokapasar/pkg/errors"
)

func record(t *testing.T, fn func(c echo.Context) error) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, fn(c))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestSuccessEnvelope(t *testing.T) {
	rec, body := record(t, func(c echo.Context) error {
		return Success(c, map[string]string{"name": "Gerai Kak Ros"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
	assert.NotEmpty(t, body.Timestamp)
}

func TestErrorTranslatesAppError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.SignInRequired("send messages"), http.StatusUnauthorized, "SIGN_IN_REQUIRED"},
		{apperrors.CartConflict("Cart holds items from another vendor"), http.StatusConflict, "CART_CONFLICT"},
		{apperrors.NotFound("Product", nil), http.StatusNotFound, "NOT_FOUND"},
		{apperrors.TooManyRequests("Slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			rec, body := record(t, func(c echo.Context) error {
				return Error(c, tc.err)
			})

			assert.Equal(t, tc.status, rec.Code)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.code, body.Error.Code)
		})
	}
}

func TestErrorHidesUnknownErrors(t *testing.T) {
	rec, body := record(t, func(c echo.Context) error {
		return Error(c, fmt.Errorf("firestore: connection reset"))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "firestore")
}

func TestErrorTranslatesValidationError(t *testing.T) {
	type payload struct {
		Quantity int `validate:"required,min=1"`
	}

	err := validator.New().Struct(payload{})
	require.Error(t, err)

	rec, body := record(t, func(c echo.Context) error {
		return Error(c, err)
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Contains(t, body.Error.Message, "quantity")
}

func TestPaginatedTotalPages(t *testing.T) {
	rec, body := record(t, func(c echo.Context) error {
		return Paginated(c, []string{"a", "b"}, 45, 1, 20)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)

	raw, err := json.Marshal(body.Data)
	require.NoError(t, err)

	var page PaginatedResponse
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.Equal(t, int64(45), page.Total)
	assert.Equal(t, 3, page.TotalPages)
}
