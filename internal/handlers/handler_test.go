package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/devtrail/bootcamp-service/internal/models"
	"github.com/devtrail/bootcamp-service/internal/query"
	"github.com/devtrail/bootcamp-service/internal/services"
	"github.com/devtrail/bootcamp-service/internal/utils"
)

const testSecret = "test-secret"

func testHandlerLogger() utils.Logger {
	return utils.NewSlogLogger(slog.New(slog.DiscardHandler))
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:        testSecret,
		JWTExpire:        time.Hour,
		CookieExpireDays: 30,
	}
}

// stubAuthService lets each test inject the behavior it needs.
type stubAuthService struct {
	registerFn func(ctx context.Context, req *services.RegisterRequest) (*models.User, error)
	loginFn    func(ctx context.Context, req *services.LoginRequest) (*models.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, req *services.RegisterRequest) (*models.User, error) {
	return s.registerFn(ctx, req)
}
func (s *stubAuthService) Login(ctx context.Context, req *services.LoginRequest) (*models.User, error) {
	return s.loginFn(ctx, req)
}
func (s *stubAuthService) GetByID(context.Context, uint) (*models.User, error) {
	return nil, services.ErrUserNotFound
}
func (s *stubAuthService) UpdateDetails(context.Context, uint, *services.UpdateDetailsRequest) (*models.User, error) {
	return nil, services.ErrUserNotFound
}
func (s *stubAuthService) UpdatePassword(context.Context, uint, *services.UpdatePasswordRequest) (*models.User, error) {
	return nil, services.ErrUserNotFound
}
func (s *stubAuthService) ForgotPassword(context.Context, *services.ForgotPasswordRequest, string) error {
	return nil
}
func (s *stubAuthService) ResetPassword(context.Context, string, *services.ResetPasswordRequest) (*models.User, error) {
	return nil, services.ErrInvalidResetToken
}

// stubBootcampService serves canned bootcamps.
type stubBootcampService struct {
	items []*models.Bootcamp
	err   error
}

func (s *stubBootcampService) List(_ context.Context, q query.Query) ([]*models.Bootcamp, int64, *models.Pagination, error) {
	if s.err != nil {
		return nil, 0, nil, s.err
	}
	return s.items, int64(len(s.items)), q.Paginate(int64(len(s.items))), nil
}
func (s *stubBootcampService) ListByZipcode(context.Context, string) ([]*models.Bootcamp, error) {
	return s.items, s.err
}
func (s *stubBootcampService) GetByID(_ context.Context, id uint) (*models.Bootcamp, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, b := range s.items {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, services.ErrBootcampNotFound
}
func (s *stubBootcampService) Create(_ context.Context, actor *models.User, _ *services.CreateBootcampRequest) (*models.Bootcamp, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Bootcamp{ID: 1, UserID: actor.ID}, nil
}
func (s *stubBootcampService) Update(context.Context, *models.User, uint, *services.UpdateBootcampRequest) (*models.Bootcamp, error) {
	return nil, s.err
}
func (s *stubBootcampService) Delete(context.Context, *models.User, uint) error { return s.err }
func (s *stubBootcampService) UploadPhoto(context.Context, *models.User, uint, *services.PhotoUpload) (string, error) {
	return "", s.err
}

func newBootcampRouter(svc services.BootcampService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewBootcampHandler(svc, testHandlerLogger())
	router.GET("/api/v1/bootcamps", h.ListBootcamps)
	router.GET("/api/v1/bootcamps/:id", h.GetBootcamp)
	return router
}

func TestBootcampHandler_List(t *testing.T) {
	router := newBootcampRouter(&stubBootcampService{items: []*models.Bootcamp{
		{ID: 1, Name: "Devworks"},
		{ID: 2, Name: "ModernTech"},
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bootcamps", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool              `json:"success"`
		Count   int64             `json:"count"`
		Data    []models.Bootcamp `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(2), resp.Count)
	assert.Len(t, resp.Data, 2)
}

func TestBootcampHandler_Get(t *testing.T) {
	router := newBootcampRouter(&stubBootcampService{items: []*models.Bootcamp{{ID: 1, Name: "Devworks"}}})

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/bootcamps/1", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing id maps to 404 envelope", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/bootcamps/99", nil))

		require.Equal(t, http.StatusNotFound, w.Code)
		var resp models.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.False(t, resp.Success)
		assert.Equal(t, "Bootcamp not found", resp.Error)
	})

	t.Run("malformed id maps to 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/bootcamps/abc", nil))

		require.Equal(t, http.StatusNotFound, w.Code)
		var resp models.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "Resource not found")
	})
}

func TestAuthHandler_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	auth := &stubAuthService{
		registerFn: func(_ context.Context, req *services.RegisterRequest) (*models.User, error) {
			return &models.User{ID: 7, Name: req.Name, Email: req.Email, Role: models.RoleUser}, nil
		},
	}
	h := NewAuthHandler(auth, testAuthConfig(), testHandlerLogger())
	router.POST("/api/v1/auth/register", h.Register)

	body, _ := json.Marshal(map[string]string{
		"name": "John Doe", "email": "john@example.com", "password": "password123",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.TokenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)

	// The same token must arrive as an http-only cookie.
	var tokenCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" {
			tokenCookie = cookie
		}
	}
	require.NotNil(t, tokenCookie)
	assert.Equal(t, resp.Token, tokenCookie.Value)
	assert.True(t, tokenCookie.HttpOnly)

	userID, err := utils.ParseSessionToken(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	auth := &stubAuthService{
		loginFn: func(context.Context, *services.LoginRequest) (*models.User, error) {
			return nil, services.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(auth, testAuthConfig(), testHandlerLogger())
	router.POST("/api/v1/auth/login", h.Login)

	body, _ := json.Marshal(map[string]string{"email": "john@example.com", "password": "wrong"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid credentials", resp.Error)
}

// stubUserRepo backs the auth middleware in tests.
type stubUserRepo struct {
	users map[uint]*models.User
}

func (s *stubUserRepo) Create(context.Context, *models.User) error { return nil }
func (s *stubUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (s *stubUserRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubUserRepo) GetByResetToken(context.Context, string, time.Time) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *stubUserRepo) List(context.Context, query.Query) ([]*models.User, int64, error) {
	return nil, 0, nil
}
func (s *stubUserRepo) Update(context.Context, *models.User) error { return nil }
func (s *stubUserRepo) Delete(context.Context, uint) error         { return nil }

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &stubUserRepo{users: map[uint]*models.User{
		1: {ID: 1, Role: models.RoleUser},
		2: {ID: 2, Role: models.RoleAdmin},
	}}
	mw := NewAuthMiddleware(testSecret, repo)

	router := gin.New()
	router.GET("/protected", mw.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, models.NewSuccessResponse(gin.H{}))
	})
	router.GET("/admin", mw.RequireAuth(), mw.RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, models.NewSuccessResponse(gin.H{}))
	})

	tokenFor := func(id uint) string {
		token, err := utils.NewSessionToken(testSecret, id, time.Hour)
		require.NoError(t, err)
		return token
	}

	t.Run("no token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bearer token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(1))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("cookie token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: tokenFor(1)})
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(99))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("role gate rejects non-admin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(1))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("role gate admits admin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(2))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewAuthHandler(&stubAuthService{}, testAuthConfig(), testHandlerLogger())
	router.GET("/api/v1/auth/logout", h.Logout)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/logout", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var cleared bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" && cookie.Value == "none" {
			cleared = true
		}
	}
	assert.True(t, cleared)
}
