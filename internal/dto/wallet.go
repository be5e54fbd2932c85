package dto

import "time"

type WalletResponseDTO struct {
	WalletID int    `json:"wallet_id" example:"1"`
	Balance  string `json:"balance" example:"50.00"`
}

type TopUpRequestDTO struct {
	Amount      string `json:"amount" example:"50.00"`
	Card        string `json:"card" example:"4561261212345467"`
	Description string `json:"description,omitempty" example:"monthly top-up"`
	PromoCode   string `json:"promo_code,omitempty" example:"WELCOME10"`
}

type WithdrawRequestDTO struct {
	Amount      string `json:"amount" example:"25.00"`
	Description string `json:"description,omitempty" example:"payout to bank"`
}

type WalletOperationResponseDTO struct {
	Balance     string                 `json:"balance" example:"75.00"`
	Transaction TransactionResponseDTO `json:"transaction"`
}

type TransactionResponseDTO struct {
	ID          string    `json:"id" example:"7d62cb81-6da3-4b4e-bf22-6a4a4d6f9031"`
	Amount      string    `json:"amount" example:"-25.00"`
	Kind        string    `json:"kind" example:"WITHDRAWAL"`
	Description string    `json:"description,omitempty"`
	PromoCode   string    `json:"promo_code,omitempty"`
	CreatedAt   time.Time `json:"created_at" example:"2024-12-09T16:09:57+03:00"`
}
