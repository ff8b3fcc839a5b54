package handler

import (
	"errors"
	"strconv"

	"github.com/xebia-france/xskillz-v2/internal/delivery/http/dto"
	"github.com/xebia-france/xskillz-v2/internal/delivery/http/middleware"
	"github.com/xebia-france/xskillz-v2/internal/domain/skill"
	"github.com/xebia-france/xskillz-v2/internal/pkg/response"
	"github.com/xebia-france/xskillz-v2/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	catalog usecase.SkillCatalog
}

type createSkillRequest struct {
	Name string `json:"name"`
}

type assignSkillRequest struct {
	SkillID    int64 `json:"skill_id"`
	Interested bool  `json:"interested"`
	Level      int   `json:"level"`
}

func NewSkillHandler(catalog usecase.SkillCatalog) *SkillHandler {
	return &SkillHandler{catalog: catalog}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/skills", h.List)
	r.Post("/skills", h.Create)
	r.Get("/skills/:id/users", h.UsersBySkill)

	r.Post("/me/skills", h.AssignToMe)
	r.Get("/users/:id/skills", h.UserSkills)

	r.Get("/updates", h.UpdateFeed)
}

// List returns every skill, or a single one when ?name= is given.
func (h *SkillHandler) List(c fiber.Ctx) error {
	if name := c.Query("name"); name != "" {
		found, err := h.catalog.FindSkillByName(c.Context(), name)
		if err != nil {
			return mapCatalogError(err)
		}
		return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSkillResponse(found))
	}

	items, err := h.catalog.ListSkills(c.Context())
	if err != nil {
		return mapCatalogError(err)
	}

	out := make([]dto.SkillResponse, 0, len(items))
	for _, s := range items {
		out = append(out, dto.NewSkillResponse(s))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *SkillHandler) Create(c fiber.Ctx) error {
	var req createSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	created, err := h.catalog.AddSkill(c.Context(), req.Name)
	if err != nil {
		return mapCatalogError(err)
	}
	return response.Success(c, fiber.StatusCreated, "skill created", dto.NewSkillResponse(created))
}

func (h *SkillHandler) UsersBySkill(c fiber.Ctx) error {
	skillID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid skill id", nil, err)
	}

	holders, err := h.catalog.UsersBySkill(c.Context(), skillID)
	if err != nil {
		return mapCatalogError(err)
	}

	out := make([]dto.SkillHolderResponse, 0, len(holders))
	for _, hd := range holders {
		out = append(out, dto.SkillHolderResponse{ID: hd.ID, Name: hd.Name, Email: hd.Email})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *SkillHandler) AssignToMe(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(int64)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req assignSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}

	err := h.catalog.AssignSkill(c.Context(), usecase.AssignSkillInput{
		UserID:     userID,
		SkillID:    req.SkillID,
		Interested: req.Interested,
		Level:      req.Level,
	})
	if err != nil {
		return mapCatalogError(err)
	}
	return response.Success(c, fiber.StatusOK, "skill assigned", nil)
}

func (h *SkillHandler) UserSkills(c fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid user id", nil, err)
	}

	items, err := h.catalog.UserSkills(c.Context(), userID)
	if err != nil {
		return mapCatalogError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserSkillResponses(items))
}

func (h *SkillHandler) UpdateFeed(c fiber.Ctx) error {
	entries, err := h.catalog.UpdateFeed(c.Context())
	if err != nil {
		return mapCatalogError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUpdateEntryResponses(entries))
}

func mapCatalogError(err error) error {
	switch {
	case errors.Is(err, skill.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, usecase.ErrDuplicateSkillName):
		return middleware.NewAppError(fiber.StatusConflict, "Skill name already exists", nil, err)
	case errors.Is(err, usecase.ErrUnknownReference):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Unknown user or skill reference", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
