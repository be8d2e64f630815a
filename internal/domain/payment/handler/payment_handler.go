package handler

import (
	"sort"

	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/internal/domain/payment/gateway"
	"github.com/balaocastelo-dev/balao-informatica-2025-sub002/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	gateways gateway.Registry
}

func NewPaymentHandler(gateways gateway.Registry) *PaymentHandler {
	return &PaymentHandler{gateways: gateways}
}

// Providers lists the payment methods available in this environment so the
// storefront only offers what is actually configured.
func (h *PaymentHandler) Providers(c *gin.Context) {
	providers := make([]string, 0, len(h.gateways))
	for name := range h.gateways {
		providers = append(providers, name)
	}
	sort.Strings(providers)
	response.Success(c, gin.H{"providers": providers})
}
