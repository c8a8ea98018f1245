package invoices

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

type CreateInvoiceRequest struct {
	ClientID int     `json:"client_id" validate:"required,gt=0"`
	CaseID   int     `json:"case_id" validate:"gte=0"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Paid     bool    `json:"paid"`
	Date     string  `json:"date" validate:"omitempty,day"`
	DueDate  string  `json:"due_date" validate:"omitempty,day"`
}

type UpdateInvoiceRequest struct {
	ClientID *int     `json:"client_id" validate:"omitempty,gt=0"`
	CaseID   *int     `json:"case_id" validate:"omitempty,gte=0"`
	Amount   *float64 `json:"amount" validate:"omitempty,gt=0"`
	Paid     *bool    `json:"paid"`
	Date     *string  `json:"date" validate:"omitempty,day"`
	DueDate  *string  `json:"due_date" validate:"omitempty,day"`
}

type PaidRequest struct {
	Paid bool `json:"paid"`
}

// InvoiceItem is an invoice with the names it points at.
type InvoiceItem struct {
	models.Invoice
	ClientName string `json:"client_name"`
	CaseName   string `json:"case_name"`
	Overdue    bool   `json:"overdue"`
}

type Handler struct{ store *store.Store }

func NewHandler(st *store.Store) *Handler { return &Handler{store: st} }

func day(s string) models.Date {
	if s = strings.TrimSpace(s); s == "" {
		return models.Date{}
	}
	d, _ := models.ParseDate(s)
	return d
}

func (h *Handler) items(rows []models.Invoice) []InvoiceItem {
	clients := map[int]string{}
	for _, cl := range h.store.Clients() {
		clients[cl.ID] = cl.Name
	}
	cases := map[int]string{}
	for _, cs := range h.store.Cases() {
		cases[cs.ID] = cs.Name
	}
	today := utils.Today()

	out := make([]InvoiceItem, 0, len(rows))
	for _, inv := range rows {
		it := InvoiceItem{Invoice: inv, ClientName: store.NoEntityLabel, CaseName: store.NoEntityLabel}
		if n, ok := clients[inv.ClientID]; ok {
			it.ClientName = n
		}
		if n, ok := cases[inv.CaseID]; ok {
			it.CaseName = n
		}
		it.Overdue = !inv.Paid && inv.DueDate.Before(today.Time)
		out = append(out, it)
	}
	return out
}

// List Invoices godoc
// @Summary      List invoices
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        paid      query bool false "true = paid only, false = unpaid only, omitted = all"
// @Param        page      query int  false "page"
// @Param        pageSize  query int  false "pageSize (0 = all)"
// @Success      200  {object}  utils.Page[InvoiceItem]
// @Failure      400  {object}  models.ErrorResponse
// @Router       /invoices [get]
func (h *Handler) List(c *fiber.Ctx) error {
	var paid *bool
	if q := c.Query("paid"); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "paid must be true or false")
		}
		paid = &v
	}
	page, size := utils.ParsePage(c)
	return c.JSON(utils.Paginate(h.items(h.store.Invoices(paid)), page, size))
}

// Get Invoice godoc
// @Summary      Get invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  int  true  "invoice id"
// @Success      200  {object}  InvoiceItem
// @Failure      404  {object}  models.ErrorResponse
// @Router       /invoices/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	inv, err := h.store.Invoice(id)
	if err != nil {
		return err
	}
	return c.JSON(h.items([]models.Invoice{inv})[0])
}

// Create Invoice godoc
// @Summary      Create invoice
// @Description  Date defaults to today and due date to 30 days later
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateInvoiceRequest  true  "Invoice payload"
// @Success      201  {object}  models.CreatedResponse
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /invoices [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	var in CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	id, err := h.store.InsertInvoice(models.Invoice{
		ClientID: in.ClientID,
		CaseID:   in.CaseID,
		Amount:   in.Amount,
		Paid:     in.Paid,
		Date:     day(in.Date),
		DueDate:  day(in.DueDate),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.CreatedResponse{ID: id})
}

// Update Invoice godoc
// @Summary      Update invoice
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  int                   true  "invoice id"
// @Param        payload  body  UpdateInvoiceRequest  true  "Fields to change"
// @Success      200  {object}  models.Invoice
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /invoices/{id} [put]
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	p := store.InvoicePatch{ClientID: in.ClientID, CaseID: in.CaseID, Amount: in.Amount, Paid: in.Paid}
	if in.Date != nil && *in.Date != "" {
		d := day(*in.Date)
		p.Date = &d
	}
	if in.DueDate != nil && *in.DueDate != "" {
		d := day(*in.DueDate)
		p.DueDate = &d
	}
	if err := h.store.UpdateInvoice(id, p); err != nil {
		return err
	}
	inv, err := h.store.Invoice(id)
	if err != nil {
		return err
	}
	return c.JSON(inv)
}

// Mark Paid godoc
// @Summary      Set payment state
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  int          true  "invoice id"
// @Param        payload  body  PaidRequest  true  "Payment state"
// @Success      200  {object}  models.Invoice
// @Failure      404  {object}  models.ErrorResponse
// @Router       /invoices/{id}/paid [post]
func (h *Handler) SetPaid(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	in := PaidRequest{Paid: true}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid json")
		}
	}
	if err := h.store.SetInvoicePaid(id, in.Paid); err != nil {
		return err
	}
	inv, err := h.store.Invoice(id)
	if err != nil {
		return err
	}
	return c.JSON(inv)
}

// Delete Invoice godoc
// @Summary      Delete invoice
// @Tags         invoices
// @Security     BearerAuth
// @Param        id   path  int  true  "invoice id"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Router       /invoices/{id} [delete]
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.store.DeleteInvoice(id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
