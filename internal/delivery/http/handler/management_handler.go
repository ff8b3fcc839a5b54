package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/xebia-france/xskillz-v2/internal/delivery/http/dto"
	"github.com/xebia-france/xskillz-v2/internal/delivery/http/middleware"
	"github.com/xebia-france/xskillz-v2/internal/pkg/response"
	"github.com/xebia-france/xskillz-v2/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// MeInvalidator drops a user's cached me-record so the next permission check
// reloads roles from the directory. Satisfied by cache.MeCache.
type MeInvalidator interface {
	Invalidate(ctx context.Context, userID int64)
}

// ManagementHandler carries the manager-facing operations: role grants, the
// management tree, manager assignment, employee start dates and user removal.
type ManagementHandler struct {
	directory usecase.UserDirectory
	me        MeInvalidator
}

type addRoleRequest struct {
	Role string `json:"role"`
}

type assignManagerRequest struct {
	ManagerID int64 `json:"manager_id"`
}

type employeeStartDateRequest struct {
	StartDate string `json:"start_date"`
}

func NewManagementHandler(directory usecase.UserDirectory, me MeInvalidator) *ManagementHandler {
	return &ManagementHandler{directory: directory, me: me}
}

func (h *ManagementHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/management", h.Management)
	r.Get("/roles/:role/users", h.UsersWithRole)
	r.Get("/roles/:role/web-users", h.WebUsersWithRole)

	r.Post("/users/:id/roles", h.AddRole)
	r.Put("/users/:id/manager", h.AssignManager)
	r.Put("/users/:id/employee-start-date", h.SetEmployeeStartDate)
	r.Delete("/users/:id", h.DeleteUser)
}

func (h *ManagementHandler) Management(c fiber.Ctx) error {
	rows, err := h.directory.Management(c.Context())
	if err != nil {
		return mapDirectoryError(err)
	}

	out := make([]dto.ManagementRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.ManagementRowResponse{
			ManagerID:   row.ManagerID,
			ManagerName: row.ManagerName,
			UserID:      row.UserID,
			UserName:    row.UserName,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ManagementHandler) UsersWithRole(c fiber.Ctx) error {
	users, err := h.directory.UsersWithRole(c.Context(), c.Params("role"))
	if err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponses(users))
}

func (h *ManagementHandler) WebUsersWithRole(c fiber.Ctx) error {
	users, err := h.directory.WebUsersWithRole(c.Context(), c.Params("role"))
	if err != nil {
		return mapDirectoryError(err)
	}

	out := make([]dto.WebUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.WebUserResponse{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *ManagementHandler) AddRole(c fiber.Ctx) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	var req addRoleRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	if err := h.directory.AddRole(c.Context(), userID, req.Role); err != nil {
		return mapDirectoryError(err)
	}
	h.invalidateMe(c.Context(), userID)
	return response.Success(c, fiber.StatusOK, "role added", nil)
}

func (h *ManagementHandler) AssignManager(c fiber.Ctx) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	var req assignManagerRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	if err := h.directory.AssignManager(c.Context(), userID, req.ManagerID); err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, "manager assigned", nil)
}

func (h *ManagementHandler) SetEmployeeStartDate(c fiber.Ctx) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	var req employeeStartDateRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	date, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid start date", nil, err)
	}

	if err := h.directory.UpdateEmployeeStartDate(c.Context(), userID, date); err != nil {
		return mapDirectoryError(err)
	}
	return response.Success(c, fiber.StatusOK, "employee start date updated", nil)
}

func (h *ManagementHandler) DeleteUser(c fiber.Ctx) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	if err := h.directory.DeleteUser(c.Context(), userID); err != nil {
		return mapDirectoryError(err)
	}
	h.invalidateMe(c.Context(), userID)
	return response.Success(c, fiber.StatusOK, "user deleted", nil)
}

// invalidateMe drops the target user's cached record after a role grant or a
// removal, so the role gate cannot keep honoring stale data for the cache TTL.
func (h *ManagementHandler) invalidateMe(ctx context.Context, userID int64) {
	if h.me == nil {
		return
	}
	h.me.Invalidate(ctx, userID)
}

func userIDParam(c fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid user id", nil, err)
	}
	return id, nil
}
