package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/weathercloset/weathercloset/internal/datastore"
	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/logger"
	"github.com/weathercloset/weathercloset/internal/observability/metrics"
	"github.com/weathercloset/weathercloset/internal/security"
)

const (
	userContextKey = "user"

	emailTakenMessage       = "Email already registered"
	badCredentialsMessage   = "Incorrect username or password"
	bearerPrefix            = "Bearer "
	authOperationSignup     = "signup"
	authOperationLogin      = "login"
	authOperationValidation = "token"
)

// SignupRequest is the registration body.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Signup registers a new account.
func (s *Server) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return s.validationFailed(c, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := security.ValidateEmail(req.Email); err != nil {
		return s.HandleErrorWithStatus(c, err, http.StatusUnprocessableEntity)
	}
	if err := security.ValidatePassword(req.Password); err != nil {
		return s.HandleErrorWithStatus(c, err, http.StatusUnprocessableEntity)
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return s.HandleError(c, err)
	}

	user, err := s.users.Create(c.Request().Context(), req.Email, hash)
	if err != nil {
		s.recordAuth(authOperationSignup, metrics.StatusError)
		if errors.IsConflict(err) {
			return s.HandleErrorWithStatus(c, errors.ConflictError(emailTakenMessage), http.StatusBadRequest)
		}
		return s.HandleError(c, err)
	}
	s.recordAuth(authOperationSignup, metrics.StatusSuccess)

	GetLogger().Info("user registered", logger.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, UserResponse{ID: user.ID, Email: user.Email})
}

// Login exchanges form credentials for a bearer token.
func (s *Server) Login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return s.validationFailed(c, "username and password are required")
	}

	user, err := s.users.GetByEmail(c.Request().Context(), username)
	if err != nil && !errors.IsNotFound(err) {
		return s.HandleError(c, err)
	}
	if user == nil || !security.VerifyPassword(user.HashedPassword, password) {
		s.recordAuth(authOperationLogin, metrics.StatusError)
		return s.HandleError(c, authError(badCredentialsMessage))
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return s.HandleErrorWithStatus(c, err, http.StatusInternalServerError)
	}
	s.recordAuth(authOperationLogin, metrics.StatusSuccess)

	return c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: security.TokenType})
}

// AuthMiddleware requires a valid bearer token naming an existing account
// and stores that account in the request context.
func (s *Server) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return s.rejectToken(c)
		}

		email, err := s.tokens.Parse(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
		if err != nil {
			return s.rejectToken(c)
		}

		user, err := s.users.GetByEmail(c.Request().Context(), email)
		if err != nil {
			if errors.IsNotFound(err) {
				return s.rejectToken(c)
			}
			return s.HandleError(c, err)
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

func (s *Server) rejectToken(c echo.Context) error {
	s.recordAuth(authOperationValidation, metrics.StatusError)
	return s.HandleError(c, authError(security.CredentialsErrorMessage))
}

func (s *Server) recordAuth(operation, status string) {
	if s.metrics != nil {
		s.metrics.HTTP.RecordAuthOperation(operation, status)
	}
}

// currentUser returns the account set by AuthMiddleware.
func currentUser(c echo.Context) *datastore.User {
	user, _ := c.Get(userContextKey).(*datastore.User)
	return user
}

func authError(message string) error {
	return errors.Newf("%s", message).
		Component("api").
		Category(errors.CategoryAuth).
		Build()
}
