package middlewares

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-api/models"
	"pos-api/utils"
)

const secret = "mw-secret"

func token(t *testing.T, role models.Role) string {
	t.Helper()
	tok, err := utils.GenerateToken(secret, time.Hour, models.Identity{ID: "u1", Role: role, Name: "N"}, time.Now())
	require.NoError(t, err)
	return tok
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/owner", AuthMiddleware(secret), RoleMiddleware(models.RoleOwner), func(c *gin.Context) {
		id, _ := utils.GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"id": id.ID})
	})
	r.GET("/maybe", OptionalAuth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": utils.GetUserRole(c)})
	})
	return r
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestAuthAndRole(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name   string
		setup  func(req *http.Request)
		status int
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized},
		{"garbage token", func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"staff is forbidden", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token(t, models.RoleStaff)) }, http.StatusForbidden},
		{"owner via header", func(req *http.Request) { req.Header.Set("Authorization", "bearer "+token(t, models.RoleOwner)) }, http.StatusOK},
		{"owner via cookie", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: "accessToken", Value: token(t, models.RoleOwner)})
		}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/owner", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/maybe", nil))
	assert.JSONEq(t, `{"role":""}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, models.RoleStaff))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"role":"STAFF"}`, w.Body.String())
}

func TestAbortWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{models.InvalidArgument("bad %s", "input"), http.StatusBadRequest, "bad input"},
		{models.ErrProductNotFound, http.StatusNotFound, "product not found"},
		{models.ErrProductSold, http.StatusConflict, "product is already sold"},
		{models.ErrForbidden, http.StatusForbidden, "access denied"},
		{errors.New("dial tcp: refused"), http.StatusInternalServerError, "internal server error"},
		{models.Fatal(errors.New("boom"), "sale commit"), http.StatusInternalServerError, "inconsistent state detected, manual reconciliation required"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		AbortWithError(c, tt.err)
		assert.Equal(t, tt.status, w.Code)
		assert.Equal(t, tt.message, errorBody(t, w))
	}
}

func TestPhone10Validator(t *testing.T) {
	require.NoError(t, RegisterValidators())

	type payload struct {
		Phone *string `json:"phone" binding:"omitempty,phone10"`
	}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var p payload
		if err := c.ShouldBindJSON(&p); err != nil {
			BindError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	for body, want := range map[string]int{
		`{"phone":"9876543210"}`: http.StatusNoContent,
		`{}`:                     http.StatusNoContent,
		`{"phone":"98765"}`:      http.StatusBadRequest,
		`{"phone":"98765abcde"}`: http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, body)
	}
}

func TestTimeoutSetsDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", Timeout(time.Second), func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"deadline": ok})
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"deadline":true}`, w.Body.String())
}
