package dashboard

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aldoetobex/mojaz-backend/internal/store"
	"github.com/aldoetobex/mojaz-backend/pkg/utils"
)

type Handler struct{ store *store.Store }

func NewHandler(st *store.Store) *Handler { return &Handler{store: st} }

// Dashboard godoc
// @Summary      Office dashboard
// @Description  Totals, invoice split, upcoming reminders and cases per status
// @Tags         dashboard
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  store.Stats
// @Router       /dashboard [get]
func (h *Handler) Get(c *fiber.Ctx) error {
	return c.JSON(h.store.Stats(utils.Today()))
}
