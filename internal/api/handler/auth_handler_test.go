package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/juangracia/booking-mvp-case-study/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, email, password string) (string, *domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	meFn       func(ctx context.Context, userID string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.registerFn(ctx, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.meFn(ctx, userID)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "user@example.com" || password != "user123" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return "tok_abc", &domain.User{ID: "usr_1", Email: email, Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/auth/login", `{"email":"user@example.com","password":"user123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Token string `json:"token"`
		Type  string `json:"type"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "tok_abc" || resp.Type != "Bearer" {
		t.Fatalf("unexpected token fields: %+v", resp)
	}
	if resp.User.Role != domain.RoleUser {
		t.Fatalf("expected USER role, got %s", resp.User.Role)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			t.Fatalf("service must not be called on invalid payload")
			return "", nil, nil
		},
	})

	c, _ := jsonContext(e, http.MethodPost, "/auth/login", `{"email":"not-an-email","password":""}`)
	err := h.Login(c)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if _, ok := ve.Fields["email"]; !ok {
		t.Fatalf("expected email field error, got %v", ve.Fields)
	}
	if _, ok := ve.Fields["password"]; !ok {
		t.Fatalf("expected password field error, got %v", ve.Fields)
	}
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	})

	c, _ := jsonContext(e, http.MethodPost, "/auth/login", `{"email":"user@example.com","password":"wrong1"}`)
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials to propagate, got %v", err)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		registerFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "tok_new", &domain.User{ID: "usr_2", Email: email, Role: domain.RoleUser}, nil
		},
	})

	c, rec := jsonContext(e, http.MethodPost, "/auth/register", `{"email":"new@example.com","password":"secret1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{})

	c, _ := jsonContext(e, http.MethodPost, "/auth/register", `{"email":"new@example.com","password":"abc"}`)
	err := h.Register(c)
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["password"]; !ok {
		t.Fatalf("expected password field error, got %v", ve.Fields)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{
		meFn: func(ctx context.Context, userID string) (*domain.User, error) {
			if userID != "usr_1" {
				t.Fatalf("unexpected user id: %s", userID)
			}
			return &domain.User{ID: userID, Email: "user@example.com", Role: domain.RoleUser}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "usr_1")
	c.Set("email", "user@example.com")
	c.Set("role", domain.RoleUser)

	if err := h.Me(c); err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Me_MissingClaims(t *testing.T) {
	e := newTestEcho()
	h := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Me(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
