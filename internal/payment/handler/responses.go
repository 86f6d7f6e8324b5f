package handler

import (
	"time"

	"agentreg/internal/payment/models"
)

type PaymentResponse struct {
	Reference     string `json:"reference"`
	ApplicationID string `json:"application_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	Settled       bool   `json:"settled"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type CheckoutResponse struct {
	Payment     PaymentResponse `json:"payment"`
	RedirectURL string          `json:"redirect_url"`
}

type ListResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

func FromPayment(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		Reference:     p.Reference,
		ApplicationID: p.ApplicationID.String(),
		Amount:        p.Amount.StringFixed(2),
		Currency:      p.Currency,
		Status:        string(p.Status),
		Settled:       p.Status.IsSettled(),
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
