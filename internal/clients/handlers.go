package clients

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aldoetobex/mojaz-backend/internal/store"
	"github.com/aldoetobex/mojaz-backend/pkg/models"
	"github.com/aldoetobex/mojaz-backend/pkg/utils"
	"github.com/aldoetobex/mojaz-backend/pkg/validation"
)

// ===== DTOs =====

type CreateClientRequest struct {
	Name             string `json:"name" validate:"required,max=120"`
	Phone            string `json:"phone" validate:"required,max=30"`
	Email            string `json:"email" validate:"omitempty,email,max=120"`
	Notes            string `json:"notes" validate:"max=2000"`
	Type             string `json:"type" validate:"omitempty,clienttype"`
	Address          string `json:"address" validate:"max=250"`
	CompanyName      string `json:"company_name" validate:"max=120"`
	SecondaryContact string `json:"secondary_contact" validate:"max=120"`
}

type UpdateClientRequest struct {
	Name             *string `json:"name" validate:"omitempty,max=120"`
	Phone            *string `json:"phone" validate:"omitempty,max=30"`
	Email            *string `json:"email" validate:"omitempty,email,max=120"`
	Notes            *string `json:"notes" validate:"omitempty,max=2000"`
	Type             *string `json:"type" validate:"omitempty,clienttype"`
	Address          *string `json:"address" validate:"omitempty,max=250"`
	CompanyName      *string `json:"company_name" validate:"omitempty,max=120"`
	SecondaryContact *string `json:"secondary_contact" validate:"omitempty,max=120"`
}

// ClientDetail is a client with the cases opened for them.
type ClientDetail struct {
	models.Client
	Cases []models.Case `json:"cases"`
}

type Handler struct{ store *store.Store }

func NewHandler(st *store.Store) *Handler { return &Handler{store: st} }

// List Clients godoc
// @Summary      List clients
// @Description  All clients, optionally filtered by a case-insensitive search over name, phone and email
// @Tags         clients
// @Security     BearerAuth
// @Produce      json
// @Param        q         query string false "search text"
// @Param        page      query int    false "page"
// @Param        pageSize  query int    false "pageSize (0 = all)"
// @Success      200  {object}  utils.Page[models.Client]
// @Failure      401  {object}  models.ErrorResponse
// @Router       /clients [get]
func (h *Handler) List(c *fiber.Ctx) error {
	page, size := utils.ParsePage(c)
	return c.JSON(utils.Paginate(h.store.SearchClients(c.Query("q")), page, size))
}

// Get Client godoc
// @Summary      Get client
// @Tags         clients
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  int  true  "client id"
// @Success      200  {object}  ClientDetail
// @Failure      404  {object}  models.ErrorResponse
// @Router       /clients/{id} [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	cl, err := h.store.Client(id)
	if err != nil {
		return err
	}
	return c.JSON(ClientDetail{Client: cl, Cases: h.store.CasesOfClient(id)})
}

// Create Client godoc
// @Summary      Create client
// @Tags         clients
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  CreateClientRequest  true  "Client payload"
// @Success      201  {object}  models.CreatedResponse
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /clients [post]
func (h *Handler) Create(c *fiber.Ctx) error {
	var in CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	id, err := h.store.InsertClient(models.Client{
		Name:             strings.TrimSpace(in.Name),
		Phone:            strings.TrimSpace(in.Phone),
		Email:            strings.TrimSpace(in.Email),
		Notes:            in.Notes,
		Type:             models.ClientType(in.Type),
		Address:          in.Address,
		CompanyName:      in.CompanyName,
		SecondaryContact: in.SecondaryContact,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.CreatedResponse{ID: id})
}

// Update Client godoc
// @Summary      Update client
// @Description  Partial update; omitted fields are left unchanged
// @Tags         clients
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  int                  true  "client id"
// @Param        payload  body  UpdateClientRequest  true  "Fields to change"
// @Success      200  {object}  models.Client
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /clients/{id} [put]
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	var in UpdateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}

	p := store.ClientPatch{
		Name:             in.Name,
		Phone:            in.Phone,
		Email:            in.Email,
		Notes:            in.Notes,
		Address:          in.Address,
		CompanyName:      in.CompanyName,
		SecondaryContact: in.SecondaryContact,
	}
	if in.Type != nil {
		t := models.ClientType(*in.Type)
		p.Type = &t
	}
	if err := h.store.UpdateClient(id, p); err != nil {
		return err
	}
	cl, err := h.store.Client(id)
	if err != nil {
		return err
	}
	return c.JSON(cl)
}

// Delete Client godoc
// @Summary      Delete client
// @Description  Refused with 409 while cases, invoices, reminders or time entries reference the client
// @Tags         clients
// @Security     BearerAuth
// @Param        id   path  int  true  "client id"
// @Success      204
// @Failure      404  {object}  models.ErrorResponse
// @Failure      409  {object}  models.BlockedResponse
// @Router       /clients/{id} [delete]
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.store.DeleteClient(id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
