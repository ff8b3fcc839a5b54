package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/xebia-france/xskillz-v2/internal/delivery/http/dto"
	"github.com/xebia-france/xskillz-v2/internal/delivery/http/middleware"
	"github.com/xebia-france/xskillz-v2/internal/domain/user"
	"github.com/xebia-france/xskillz-v2/internal/pkg/response"
	"github.com/xebia-france/xskillz-v2/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	directory usecase.UserDirectory
}

type updateProfileRequest struct {
	Email   *string `json:"email"`
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Diploma *string `json:"diploma"`
	Phone   *string `json:"phone"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type updatePhoneRequest struct {
	Phone string `json:"phone"`
}

type updateAddressRequest struct {
	Address string `json:"address"`
}

func NewUserHandler(directory usecase.UserDirectory) *UserHandler {
	return &UserHandler{directory: directory}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/users", h.List)
	r.Get("/users/:id", h.Get)

	r.Get("/me", h.GetMe)
	r.Patch("/me", h.UpdateMe)
	r.Put("/me/password", h.ChangePassword)
	r.Put("/me/phone", h.UpdatePhone)
	r.Put("/me/address", h.UpdateAddress)
}

func (h *UserHandler) List(c fiber.Ctx) error {
	users, err := h.directory.GetUsers(c.Context())
	if err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponses(users))
}

// Get resolves :id as a numeric id first and falls back to the readable slug,
// so both /users/42 and /users/firstname-lastname work.
func (h *UserHandler) Get(c fiber.Ctx) error {
	param := c.Params("id")

	var (
		usr user.User
		err error
	)
	if id, convErr := strconv.ParseInt(param, 10, 64); convErr == nil {
		usr, err = h.directory.FindByID(c.Context(), id)
	} else {
		usr, err = h.directory.FindByReadableID(c.Context(), param)
	}
	if err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(int64)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	usr, err := h.directory.FindByID(c.Context(), userID)
	if err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(int64)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	upd := user.Update{
		Email:   req.Email,
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	}
	if req.Diploma != nil {
		d, err := time.Parse("2006-01-02", *req.Diploma)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid diploma date", nil, err)
		}
		upd.Diploma = &d
	}

	if err := h.directory.UpdateUser(c.Context(), userID, upd); err != nil {
		return mapDirectoryError(err)
	}

	usr, err := h.directory.FindByID(c.Context(), userID)
	if err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

func (h *UserHandler) ChangePassword(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(int64)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req changePasswordRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	if err := h.directory.ChangePassword(c.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid credentials", nil, err)
		}
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, "password updated", nil)
}

func (h *UserHandler) UpdatePhone(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(int64)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req updatePhoneRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	if err := h.directory.UpdatePhone(c.Context(), userID, req.Phone); err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, "phone updated", nil)
}

func (h *UserHandler) UpdateAddress(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(int64)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req updateAddressRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	if err := h.directory.UpdateAddress(c.Context(), userID, req.Address); err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, "address updated", nil)
}

func mapDirectoryError(err error) error {
	switch {
	case errors.Is(err, user.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, usecase.ErrDuplicateEmail):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	case errors.Is(err, usecase.ErrSelfManagement):
		return middleware.NewAppError(fiber.StatusBadRequest, "A user cannot manage themselves", nil, err)
	case errors.Is(err, usecase.ErrManagementCycle):
		return middleware.NewAppError(fiber.StatusBadRequest, "Assignment would create a management cycle", nil, err)
	case errors.Is(err, usecase.ErrUnknownReference):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Unknown user reference", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
