package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/bridge")

	r.Get("/state", h.GetState)
	r.Get("/health", h.GetHealth)
	r.Get("/processed/:hash", h.GetProcessedTransaction)
	r.Get("/burns", h.GetBurnTransactions)
	r.Get("/burns/:owner/:nonce", h.GetBurnTransaction)
	r.Post("/mint", h.Mint)

	r.Post("/initialize", h.RequireSignature, h.Initialize)
	r.Post("/burn", h.RequireSignature, h.Burn)
	r.Post("/burns/:owner/:nonce/settle", h.RequireSignature, h.SettleBurn)

	admin := r.Group("/admin", h.RequireSignature)
	admin.Post("/pause", h.Pause)
	admin.Post("/unpause", h.Unpause)
	admin.Post("/required-validators", h.UpdateRequiredValidators)
	return nil
}
