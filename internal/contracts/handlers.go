package contracts

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/aldoetobex/mojaz-backend/pkg/sanitize"
	"github.com/aldoetobex/mojaz-backend/pkg/utils"
	"github.com/aldoetobex/mojaz-backend/pkg/validation"
)

// ===== DTOs =====

type TypeItem struct {
	Code  string       `json:"code"`
	Label ContractType `json:"label"`
}

type RenderRequest struct {
	ContractType string `json:"contract_type" validate:"required"`
	Fields       Fields `json:"fields"`
}

type RenderResponse struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// PDFRequest carries optional PNG/JPEG images as base64.
type PDFRequest struct {
	RenderRequest
	Signature string `json:"signature"`
	Stamp     string `json:"stamp"`
}

type ShareRequest struct {
	PDFRequest
	WhatsApp string `json:"whatsapp" validate:"omitempty,max=30"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type ShareResponse struct {
	WhatsAppURL string `json:"whatsapp_url,omitempty"`
	Emailed     bool   `json:"emailed"`
}

type Handler struct {
	pdf    PDFBuilder
	sender Sender
}

// NewHandler wires the PDF builder and the mail sender; sender may be nil
// when e-mail is not configured.
func NewHandler(b PDFBuilder, sender Sender) *Handler {
	return &Handler{pdf: b, sender: sender}
}

// parse resolves the type and defaults the date to today. A nil error map
// means the request is usable.
func parse(in *RenderRequest) (ContractType, Fields, map[string][]string) {
	if errs, _ := validation.Validate(in); errs != nil {
		return "", nil, errs
	}
	ct, err := ParseContractType(in.ContractType)
	if err != nil {
		return "", nil, map[string][]string{"contract_type": {"Value is not allowed"}}
	}
	f := Fields{}
	for k, v := range in.Fields {
		f[k] = v
	}
	if !f.Truthy("date") {
		f["date"] = utils.Today().String()
	}
	return ct, f, nil
}

func decodeImage(field, raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	// data URLs from the browser canvas
	if i := strings.Index(raw, ","); strings.HasPrefix(raw, "data:") && i > 0 {
		raw = raw[i+1:]
	}
	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, field+" must be base64")
	}
	return b, nil
}

// build returns the rendered PDF, or a nil slice after a validation
// response has already been written.
func (h *Handler) build(c *fiber.Ctx, in *PDFRequest) (ContractType, Fields, []byte, error) {
	ct, f, errs := parse(&in.RenderRequest)
	if errs != nil {
		return "", nil, nil, validation.Respond(c, errs)
	}
	sig, err := decodeImage("signature", in.Signature)
	if err != nil {
		return "", nil, nil, err
	}
	stamp, err := decodeImage("stamp", in.Stamp)
	if err != nil {
		return "", nil, nil, err
	}

	out, err := h.pdf.BuildPDF(Document{Title: string(ct), Lines: Render(ct, f), Signature: sig, Stamp: stamp})
	if errors.Is(err, ErrUnsupportedImage) {
		return "", nil, nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		zap.S().Errorw("contract pdf failed", "type", ct.Code(), "error", err)
		return "", nil, nil, err
	}
	return ct, f, out, nil
}

func fileName(ct ContractType) string {
	return fmt.Sprintf("%s_%s.pdf", ct.Code(), utils.Today().String())
}

// Contract Types godoc
// @Summary      Supported contract types
// @Tags         contracts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  TypeItem
// @Router       /contracts/types [get]
func (h *Handler) Types(c *fiber.Ctx) error {
	out := make([]TypeItem, 0, len(ContractTypes))
	for _, ct := range ContractTypes {
		out = append(out, TypeItem{Code: ct.Code(), Label: ct})
	}
	return c.JSON(out)
}

// Render Contract godoc
// @Summary      Render contract text
// @Description  Returns the ordered contract lines. Optional clauses whose fields are unset are left out.
// @Tags         contracts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  RenderRequest  true  "Type and fields"
// @Success      200  {object}  RenderResponse
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /contracts/render [post]
func (h *Handler) Render(c *fiber.Ctx) error {
	var in RenderRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	ct, f, errs := parse(&in)
	if errs != nil {
		return validation.Respond(c, errs)
	}
	return c.JSON(RenderResponse{Title: string(ct), Lines: Render(ct, f)})
}

// Contract PDF godoc
// @Summary      Download contract PDF
// @Tags         contracts
// @Security     BearerAuth
// @Accept       json
// @Produce      application/pdf
// @Param        payload  body  PDFRequest  true  "Type, fields and optional images"
// @Success      200  {file}  file
// @Failure      400  {object}  models.ValidationErrorResponse
// @Router       /contracts/pdf [post]
func (h *Handler) PDF(c *fiber.Ctx) error {
	var in PDFRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	ct, _, out, err := h.build(c, &in)
	if err != nil || out == nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName(ct)))
	return c.Send(out)
}

// Share Contract godoc
// @Summary      Share contract
// @Description  Builds the PDF, e-mails it when an address is given and returns a WhatsApp link when a number is given
// @Tags         contracts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body  ShareRequest  true  "Contract and recipients"
// @Success      200  {object}  ShareResponse
// @Failure      400  {object}  models.ValidationErrorResponse
// @Failure      503  {object}  models.ErrorResponse
// @Router       /contracts/share [post]
func (h *Handler) Share(c *fiber.Ctx) error {
	var in ShareRequest
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if errs, _ := validation.Validate(in); errs != nil {
		return validation.Respond(c, errs)
	}
	if in.WhatsApp == "" && in.Email == "" {
		return validation.Respond(c, map[string][]string{
			"whatsapp": {"Provide a WhatsApp number or an e-mail"},
		})
	}

	ct, f, out, err := h.build(c, &in.PDFRequest)
	if err != nil || out == nil {
		return err
	}
	msg := ShareMessage(ct, f.String("party1"), f.String("party2"), f.Date("date"))

	var res ShareResponse
	if in.WhatsApp != "" {
		res.WhatsAppURL = WhatsAppLink(in.WhatsApp, msg)
		zap.S().Infow("contract shared via whatsapp", "type", ct.Code(), "to", sanitize.RedactPII(in.WhatsApp))
	}
	if in.Email != "" {
		if h.sender == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, ErrMailDisabled.Error())
		}
		err := h.sender.Send(in.Email, string(ct), msg, Attachment{
			Filename:    fileName(ct),
			ContentType: "application/pdf",
			Content:     out,
		})
		if errors.Is(err, ErrMailDisabled) {
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "e-mail could not be sent")
		}
		res.Emailed = true
	}
	return c.JSON(res)
}
