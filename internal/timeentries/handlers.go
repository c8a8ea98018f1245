package timeentries

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aldoetobex/mojaz-backend/internal/store"
	"github.com/aldoetobex/mojaz-backend/pkg/models"
	"github.com/aldoetobex/mojaz-backend/pkg/utils"
	"github.com/aldoetobex/mojaz-backend/pkg/validation"
)

// ===== DTOs =====

type CreateTimeEntryRequest struct {
	ClientID    int     `json:"client_id" validate:"required,gt=0"`
	CaseID      int     `json:"case_id" validate:"gte=0"`
	Date        string  `json:"date" validate:"omitempty,day"`
	Hours       float64 `json:"hours" validate:"required,gt=0,lte=24"`
	Category    string  `json:"category" validate:"omitempty,timecategory"`
	Description string  `json:"description" validate:"max=2000"`
}

type UpdateTimeEntryRequest struct {
	ClientID    *int     `json:"client_id" validate:"omitempty,gt=0"`
	CaseID      *int     `json:"case_id" validate:"omitempty,gte=0"`
	Date        *string  `json:"date" validate:"omitempty,day"`
	Hours       *float64 `json:"hours" validate:"omitempty,gt=0,lte=24"`
	Category    *string  `json:"category" validate:"omitempty,timecategory"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
}

// EntryList is a listing with its hour total.
type EntryList struct {
	utils.Page[models.TimeEntry]
	TotalHours float64 `json:"total_hours"`
}

type Handler struct{ store *store.Store }

func NewHandler(st *store.Store) *Handler { return &Handler{store: st} }

// List Time Entries godoc
// @Summary      List time entries
// @Tags         time-entries
// @Security     BearerAuth
// @Produce      json
// @Param        client_id  query int false "only this client"
// @Param        page       query int false "page"
// @Param        pageSize   query int false "pageSize (0 = all)"
// @Success      200  {object}  EntryList
// @Router       /time-entries [get]
func (h *Handler) List(c *fiber.Ctx) error {
	clientID, _ := strconv.Atoi(c.Query("client_id", "0"))
	rows := h.store.TimeEntries(clientID)

	var total float64
	for _, te := range rows {
		total += te.Hours
	}
	page, size := utils.ParsePage(c)
	return c.JSON(EntryList{Page: utils.Paginate(rows, page, size), TotalHours: total})
}

// Get Time Entry godoc
// @Summary      Get time entry
// @Tags         time-entries
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  int  true  "entry id"
// @Success      200  {object}  models.TimeEntry
// @Failure      404  {object}  models.ErrorResponse
// @Router       /time-entries/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	te, err := h.store.TimeEntry(id)
	if err != nil {
		return err
	}
	return c.JSON(te)
}

// Create Time Entry godoc
// @Summary      Record time
// @Tags         time-entries
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateTimeEntryRequest  true  "Time entry payload"
// @Success      201  {object}  models.CreatedResponse
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /time-entries [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	var in CreateTimeEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	te := models.TimeEntry{
		ClientID:    in.ClientID,
		CaseID:      in.CaseID,
		Hours:       in.Hours,
		Category:    models.TimeCategory(in.Category),
		Description: strings.TrimSpace(in.Description),
	}
	if in.Date != "" {
		te.Date, _ = models.ParseDate(in.Date)
	}
	id, err := h.store.InsertTimeEntry(te)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.CreatedResponse{ID: id})
}

// Update Time Entry godoc
// @Summary      Update time entry
// @Tags         time-entries
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  int                     true  "entry id"
// @Param        payload  body  UpdateTimeEntryRequest  true  "Fields to change"
// @Success      200  {object}  models.TimeEntry
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /time-entries/{id} [put]
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in UpdateTimeEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	p := store.TimeEntryPatch{ClientID: in.ClientID, CaseID: in.CaseID, Hours: in.Hours, Description: in.Description}
	if in.Category != nil {
		v := models.TimeCategory(*in.Category)
		p.Category = &v
	}
	if in.Date != nil && *in.Date != "" {
		d, err := models.ParseDate(*in.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date")
		}
		p.Date = &d
	}
	if err := h.store.UpdateTimeEntry(id, p); err != nil {
		return err
	}
	te, err := h.store.TimeEntry(id)
	if err != nil {
		return err
	}
	return c.JSON(te)
}

// Delete Time Entry godoc
// @Summary      Delete time entry
// @Tags         time-entries
// @Security     BearerAuth
// @Param        id   path  int  true  "entry id"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /time-entries/{id} [delete]
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.store.DeleteTimeEntry(id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
