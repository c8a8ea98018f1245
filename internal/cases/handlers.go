package cases

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aldoetobex/mojaz-backend/internal/store"
	"github.com/aldoetobex/mojaz-backend/pkg/models"
	"github.com/aldoetobex/mojaz-backend/pkg/sanitize"
	"github.com/aldoetobex/mojaz-backend/pkg/utils"
	"github.com/aldoetobex/mojaz-backend/pkg/validation"
)

// ===== DTOs =====

type CreateCaseRequest struct {
	ClientID          int    `json:"client_id" validate:"required,gt=0"`
	Name              string `json:"case_name" validate:"required,max=160"`
	Type              string `json:"case_type" validate:"omitempty,casetype"`
	Status            string `json:"status" validate:"omitempty,casestatus"`
	CourtDate         string `json:"court_date" validate:"omitempty,day"`
	OpposingParty     string `json:"opposing_party" validate:"max=160"`
	Description       string `json:"case_description" validate:"max=5000"`
	ResponsibleLawyer string `json:"responsible_lawyer" validate:"max=120"`
	Notes             string `json:"notes" validate:"max=5000"`
	Priority          string `json:"priority" validate:"omitempty,priority"`
}

type UpdateCaseRequest struct {
	ClientID          *int    `json:"client_id" validate:"omitempty,gt=0"`
	Name              *string `json:"case_name" validate:"omitempty,max=160"`
	Type              *string `json:"case_type" validate:"omitempty,casetype"`
	Status            *string `json:"status" validate:"omitempty,casestatus"`
	CourtDate         *string `json:"court_date" validate:"omitempty,day"`
	OpposingParty     *string `json:"opposing_party" validate:"omitempty,max=160"`
	Description       *string `json:"case_description" validate:"omitempty,max=5000"`
	ResponsibleLawyer *string `json:"responsible_lawyer" validate:"omitempty,max=120"`
	Notes             *string `json:"notes" validate:"omitempty,max=5000"`
	Priority          *string `json:"priority" validate:"omitempty,priority"`
}

type ActivityRequest struct {
	Description string `json:"description" validate:"required,max=2000"`
}

// CaseListItem is the row shown in the case table.
type CaseListItem struct {
	ID         int               `json:"case_id"`
	ClientID   int               `json:"client_id"`
	ClientName string            `json:"client_name"`
	Name       string            `json:"case_name"`
	Type       models.CaseType   `json:"case_type"`
	Status     models.CaseStatus `json:"status"`
	Priority   models.Priority   `json:"priority"`
	CourtDate  models.Date       `json:"court_date"`
	Summary    string            `json:"summary"`
}

type Handler struct{ store *store.Store }

func NewHandler(st *store.Store) *Handler { return &Handler{store: st} }

func parseDay(s *string) (*models.Date, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := models.ParseDate(strings.TrimSpace(*s))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// List Cases godoc
// @Summary      List cases
// @Description  All cases, optionally filtered by a search over case name, client name, status and opposing party
// @Tags         cases
// @Security     BearerAuth
// @Produce      json
// @Param        q         query string false "search text"
// @Param        page      query int    false "page"
// @Param        pageSize  query int    false "pageSize (0 = all)"
// @Success      200  {object}  utils.Page[CaseListItem]
// @Failure      401  {object}  models.ErrorResponse
// @Router       /cases [get]
func (h *Handler) List(c *fiber.Ctx) error {
	names := map[int]string{}
	for _, cl := range h.store.Clients() {
		names[cl.ID] = cl.Name
	}
	rows := h.store.SearchCases(c.Query("q"))
	items := make([]CaseListItem, 0, len(rows))
	for _, cs := range rows {
		label, ok := names[cs.ClientID]
		if !ok {
			label = store.NoEntityLabel
		}
		items = append(items, CaseListItem{
			ID:         cs.ID,
			ClientID:   cs.ClientID,
			ClientName: label,
			Name:       cs.Name,
			Type:       cs.Type,
			Status:     cs.Status,
			Priority:   cs.Priority,
			CourtDate:  cs.CourtDate,
			Summary:    sanitize.Summary(cs.Description, 160),
		})
	}
	page, size := utils.ParsePage(c)
	return c.JSON(utils.Paginate(items, page, size))
}

// Get Case godoc
// @Summary      Get case
// @Description  Full case including its activity log
// @Tags         cases
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  int  true  "case id"
// @Success      200  {object}  models.Case
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	cs, err := h.store.Case(id)
	if err != nil {
		return err
	}
	return c.JSON(cs)
}

// Create Case godoc
// @Summary      Create case
// @Description  Opens a case for an existing client. Priority defaults to medium and the court date to a week from today.
// @Tags         cases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateCaseRequest  true  "Case payload"
// @Success      201  {object}  models.CreatedResponse
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /cases [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	var in CreateCaseRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	cs := models.Case{
		ClientID:          in.ClientID,
		Name:              strings.TrimSpace(in.Name),
		Type:              models.CaseType(in.Type),
		Status:            models.CaseStatus(in.Status),
		OpposingParty:     strings.TrimSpace(in.OpposingParty),
		Description:       strings.TrimSpace(in.Description),
		ResponsibleLawyer: strings.TrimSpace(in.ResponsibleLawyer),
		Notes:             in.Notes,
		Priority:          models.Priority(in.Priority),
	}
	if d, _ := parseDay(&in.CourtDate); d != nil {
		cs.CourtDate = *d
	}

	id, err := h.store.InsertCase(cs)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.CreatedResponse{ID: id})
}

// Update Case godoc
// @Summary      Update case
// @Description  Partial update; omitted fields are left unchanged
// @Tags         cases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  int                true  "case id"
// @Param        payload  body  UpdateCaseRequest  true  "Fields to change"
// @Success      200  {object}  models.Case
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id} [put]
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in UpdateCaseRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	p := store.CasePatch{
		ClientID:          in.ClientID,
		Name:              in.Name,
		OpposingParty:     in.OpposingParty,
		Description:       in.Description,
		ResponsibleLawyer: in.ResponsibleLawyer,
		Notes:             in.Notes,
	}
	if in.Type != nil {
		v := models.CaseType(*in.Type)
		p.Type = &v
	}
	if in.Status != nil {
		v := models.CaseStatus(*in.Status)
		p.Status = &v
	}
	if in.Priority != nil {
		v := models.Priority(*in.Priority)
		p.Priority = &v
	}
	if p.CourtDate, err = parseDay(in.CourtDate); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid court_date")
	}

	if err := h.store.UpdateCase(id, p); err != nil {
		return err
	}
	cs, err := h.store.Case(id)
	if err != nil {
		return err
	}
	return c.JSON(cs)
}

// Add Activity godoc
// @Summary      Log case activity
// @Description  Appends a timestamped entry to the end of the case activity log
// @Tags         cases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  int              true  "case id"
// @Param        payload  body  ActivityRequest  true  "Activity"
// @Success      201  {object}  models.ActivityEntry
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /cases/{id}/activity [post]
func (h *Handler) AddActivity(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in ActivityRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	in.Description = strings.TrimSpace(in.Description)
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	entry, err := h.store.AppendCaseActivity(id, in.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// Delete Case godoc
// @Summary      Delete case
// @Description  Refused with 409 while invoices, reminders or time entries reference the case
// @Tags         cases
// @Security     BearerAuth
// @Param        id   path  int  true  "case id"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.BlockedResponse
// @Router       /cases/{id} [delete]
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.store.DeleteCase(id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
