package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/pkim-dev/usersvc/api/http/presenter"
	"github.com/pkim-dev/usersvc/pkg/account"
	"github.com/pkim-dev/usersvc/pkg/security/token"
)

// bcrypt silently truncates beyond 72 bytes, so longer passwords are
// rejected up front.
const maxPasswordBytes = 72

type UserHandler struct {
	useCase account.UseCase
}

func NewUserHandler(useCase account.UseCase) *UserHandler {
	return &UserHandler{useCase: useCase}
}

type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	TC                   bool   `json:"tc"`
}

type userResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	TC        bool            `json:"tc"`
	Profile   json.RawMessage `json:"profile,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func newUserResponse(u account.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		TC:        u.TC,
		Profile:   u.Profile,
		CreatedAt: u.CreatedAt,
	}
}

// Register handles user registration.
// @Summary Sign up
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body registerRequest true "registration payload"
// @Success 201 {object} map[string]any
// @Failure 400 {object} presenter.ValidationResponse
// @Router  /register [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Fail(c, http.StatusBadRequest, "invalid JSON payload")
	}

	errs := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		errs["name"] = "name is required"
	}
	validateEmail(errs, req.Email)
	validatePassword(errs, req.Password)
	if req.Password != req.PasswordConfirmation {
		errs["password_confirmation"] = "password confirmation does not match"
	}
	if !req.TC {
		errs["tc"] = "terms must be accepted"
	}
	if len(errs) > 0 {
		return presenter.ValidationErrors(c, errs)
	}

	result, err := h.useCase.Register(c.Context(), account.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		TC:       req.TC,
	})
	if err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			// Soft failure by contract: the email conflict is not an error
			// status, it is a 200 with a failed body.
			return presenter.Fail(c, http.StatusOK, "Email already exists")
		}
		return presenter.Fail(c, http.StatusInternalServerError, "failed to register user")
	}

	return presenter.JSON(c, http.StatusCreated, fiber.Map{
		"token":   result.Token,
		"message": "Registeration Success",
		"status":  "success",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles user login.
// @Summary Sign in
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} map[string]any
// @Failure 400 {object} presenter.ValidationResponse
// @Failure 401 {object} presenter.StatusResponse
// @Router  /login [post]
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Fail(c, http.StatusBadRequest, "invalid JSON payload")
	}

	errs := map[string]string{}
	validateEmail(errs, req.Email)
	if req.Password == "" {
		errs["password"] = "password is required"
	}
	if len(errs) > 0 {
		return presenter.ValidationErrors(c, errs)
	}

	result, err := h.useCase.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, account.ErrInvalidCredentials) {
			// One message for unknown email and wrong password alike.
			return presenter.Fail(c, http.StatusUnauthorized, "The Provided Credentials are incorrect")
		}
		return presenter.Fail(c, http.StatusInternalServerError, "failed to login")
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"token":   result.Token,
		"message": "login Success",
		"status":  "success",
	})
}

// Logout revokes the token used on this request. Other sessions of the
// same user stay valid.
// @Summary Logout
// @Tags    auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} presenter.StatusResponse
// @Router  /logout [post]
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	session, ok := token.SessionFromCtx(c)
	if !ok {
		return presenter.Fail(c, http.StatusUnauthorized, "Unauthenticated")
	}

	if err := h.useCase.Logout(c.Context(), session.TokenID); err != nil {
		return presenter.Fail(c, http.StatusInternalServerError, "failed to logout")
	}

	return presenter.Success(c, http.StatusOK,
		"You have succesfully been logged out and your token has been removed")
}

// UserInfo returns the authenticated user's record.
// @Summary Get my information
// @Tags    profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router  /userinfo [get]
func (h *UserHandler) UserInfo(c *fiber.Ctx) error {
	session, ok := token.SessionFromCtx(c)
	if !ok {
		return presenter.Fail(c, http.StatusUnauthorized, "Unauthenticated")
	}

	user, err := h.useCase.UserInfo(c.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return presenter.Fail(c, http.StatusUnauthorized, "Unauthenticated")
		}
		return presenter.Fail(c, http.StatusInternalServerError, "failed to load user")
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"user":    newUserResponse(user),
		"message": "Logged User Data",
		"status":  "success",
	})
}

type changePasswordRequest struct {
	Password string `json:"password"`
}

// ChangePassword re-hashes and stores a new password secret without
// revoking any existing session.
// @Summary Change password
// @Tags    profile
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} presenter.StatusResponse
// @Failure 400 {object} presenter.ValidationResponse
// @Router  /changepassword [post]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	session, ok := token.SessionFromCtx(c)
	if !ok {
		return presenter.Fail(c, http.StatusUnauthorized, "Unauthenticated")
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Fail(c, http.StatusBadRequest, "invalid JSON payload")
	}

	errs := map[string]string{}
	validatePassword(errs, req.Password)
	if len(errs) > 0 {
		return presenter.ValidationErrors(c, errs)
	}

	if err := h.useCase.ChangePassword(c.Context(), session.UserID, req.Password); err != nil {
		return presenter.Fail(c, http.StatusInternalServerError, "failed to change password")
	}

	return presenter.Success(c, http.StatusOK, "Password Changed")
}

// GetUser is a public lookup by id; no authentication is required.
// @Summary Get user by id
// @Tags    users
// @Produce json
// @Param   id path string true "user id"
// @Success 200 {object} map[string]any
// @Failure 404 {object} presenter.StatusResponse
// @Router  /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return presenter.Fail(c, http.StatusBadRequest, "invalid user id")
	}

	user, err := h.useCase.GetUser(c.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return presenter.Fail(c, http.StatusNotFound, "User not found")
		}
		return presenter.Fail(c, http.StatusInternalServerError, "failed to load user")
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"info":   newUserResponse(user),
		"status": "success",
	})
}

// Delete removes the authenticated user's account and echoes the deleted
// record.
// @Summary Delete my account
// @Tags    profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Router  /delete [post]
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	session, ok := token.SessionFromCtx(c)
	if !ok {
		return presenter.Fail(c, http.StatusUnauthorized, "Unauthenticated")
	}

	user, err := h.useCase.Delete(c.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return presenter.Fail(c, http.StatusUnauthorized, "Unauthenticated")
		}
		return presenter.Fail(c, http.StatusInternalServerError, "failed to delete user")
	}

	return presenter.JSON(c, http.StatusOK, fiber.Map{
		"user":   newUserResponse(user),
		"status": "success",
	})
}

func validateEmail(errs map[string]string, email string) {
	if strings.TrimSpace(email) == "" {
		errs["email"] = "email is required"
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "email is malformed"
	}
}

func validatePassword(errs map[string]string, password string) {
	if password == "" {
		errs["password"] = "password is required"
		return
	}
	if len(password) > maxPasswordBytes {
		errs["password"] = "password must be at most 72 characters"
	}
}
