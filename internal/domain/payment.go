package domain

import (
	"time"
)

// PaymentChannel is the channel a payment was settled through.
type PaymentChannel string

const (
	ChannelBankTransfer PaymentChannel = "Bank Transfer"
	ChannelMobileMoney  PaymentChannel = "Mobile Money"
	ChannelCash         PaymentChannel = "Cash"
	ChannelCheque       PaymentChannel = "Cheque"
	ChannelPOS          PaymentChannel = "POS"
	ChannelOnline       PaymentChannel = "Online"
)

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "Completed"
	PaymentPending   PaymentStatus = "Pending"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentReversed  PaymentStatus = "Reversed"
)

// PaymentRecord is one settled tax payment. Only Completed payments
// participate in aggregates and detector statistics.
type PaymentRecord struct {
	PaymentID  string         `json:"paymentId"`
	TaxpayerID string         `json:"taxpayerId"`
	Date       time.Time      `json:"date"`
	Channel    PaymentChannel `json:"channel"`
	Provider   string         `json:"provider,omitempty"`
	TaxType    string         `json:"taxType"` // e.g. "PAYE", "VAT"

	PeriodYear  int `json:"periodYear,omitempty"`
	PeriodMonth int `json:"periodMonth,omitempty"`

	Amount    float64       `json:"amount"`
	Reference string        `json:"reference,omitempty"`
	Status    PaymentStatus `json:"status"`
}

// Completed reports whether the payment settled successfully.
func (p *PaymentRecord) Completed() bool {
	return p.Status == PaymentCompleted
}
