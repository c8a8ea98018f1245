package reminders

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aldoetobex/mojaz-backend/internal/store"
	"github.com/aldoetobex/mojaz-backend/pkg/models"
	"github.com/aldoetobex/mojaz-backend/pkg/utils"
	"github.com/aldoetobex/mojaz-backend/pkg/validation"
)

// ===== DTOs =====

type CreateReminderRequest struct {
	RelatedType string `json:"related_type" validate:"omitempty,relatedtype"`
	RelatedID   int    `json:"related_id" validate:"gte=0"`
	Description string `json:"description" validate:"required,max=1000"`
	Date        string `json:"date" validate:"omitempty,day"`
}

type UpdateReminderRequest struct {
	RelatedType *string `json:"related_type" validate:"omitempty,relatedtype"`
	RelatedID   *int    `json:"related_id" validate:"omitempty,gte=0"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Date        *string `json:"date" validate:"omitempty,day"`
	IsCompleted *bool   `json:"is_completed"`
}

type Handler struct{ store *store.Store }

func NewHandler(st *store.Store) *Handler { return &Handler{store: st} }

// List Reminders godoc
// @Summary      List reminders
// @Description  Each reminder carries its derived status (completed, upcoming or overdue) and the name of what it points at
// @Tags         reminders
// @Security     BearerAuth
// @Produce      json
// @Param        status    query string false "filter on derived status"
// @Param        page      query int    false "page"
// @Param        pageSize  query int    false "pageSize (0 = all)"
// @Success      200  {object}  utils.Page[store.ReminderView]
// @Router       /reminders [get]
func (h *Handler) List(c *fiber.Ctx) error {
	rows := h.store.Reminders()
	if want := models.ReminderStatus(strings.TrimSpace(c.Query("status"))); want != "" {
		kept := rows[:0]
		for _, r := range rows {
			if r.Status == want {
				kept = append(kept, r)
			}
		}
		rows = kept
	}
	page, size := utils.ParsePage(c)
	return c.JSON(utils.Paginate(rows, page, size))
}

// Get Reminder godoc
// @Summary      Get reminder
// @Tags         reminders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  int  true  "reminder id"
// @Success      200  {object}  store.ReminderView
// @Failure      404  {object}  models.ErrorResponse
// @Router       /reminders/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.store.Reminder(id)
	if err != nil {
		return err
	}
	return c.JSON(r)
}

// Create Reminder godoc
// @Summary      Create reminder
// @Description  General reminders always get related_id 0; client and case reminders must point at an existing row (or 0)
// @Tags         reminders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateReminderRequest  true  "Reminder payload"
// @Success      201  {object}  models.CreatedResponse
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /reminders [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	var in CreateReminderRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	in.Description = strings.TrimSpace(in.Description)
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	r := models.Reminder{
		RelatedType: models.RelatedType(in.RelatedType),
		RelatedID:   in.RelatedID,
		Description: in.Description,
	}
	if in.Date != "" {
		r.Date, _ = models.ParseDate(in.Date)
	}
	id, err := h.store.InsertReminder(r)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.CreatedResponse{ID: id})
}

// Update Reminder godoc
// @Summary      Update reminder
// @Tags         reminders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  int                    true  "reminder id"
// @Param        payload  body  UpdateReminderRequest  true  "Fields to change"
// @Success      200  {object}  store.ReminderView
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /reminders/{id} [put]
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in UpdateReminderRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	p := store.ReminderPatch{RelatedID: in.RelatedID, Description: in.Description, IsCompleted: in.IsCompleted}
	if in.RelatedType != nil {
		v := models.RelatedType(*in.RelatedType)
		p.RelatedType = &v
	}
	if in.Date != nil && *in.Date != "" {
		d, err := models.ParseDate(*in.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date")
		}
		p.Date = &d
	}
	if err := h.store.UpdateReminder(id, p); err != nil {
		return err
	}
	r, err := h.store.Reminder(id)
	if err != nil {
		return err
	}
	return c.JSON(r)
}

// Complete Reminder godoc
// @Summary      Complete reminder
// @Tags         reminders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  int  true  "reminder id"
// @Success      200  {object}  store.ReminderView
// @Failure      404  {object}  models.ErrorResponse
// @Router       /reminders/{id}/complete [post]
func (h *Handler) Complete(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.store.CompleteReminder(id); err != nil {
		return err
	}
	r, err := h.store.Reminder(id)
	if err != nil {
		return err
	}
	return c.JSON(r)
}

// Delete Reminder godoc
// @Summary      Delete reminder
// @Tags         reminders
// @Security     BearerAuth
// @Param        id   path  int  true  "reminder id"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /reminders/{id} [delete]
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.store.DeleteReminder(id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
