// Package rental runs a car rental desk: the available fleet, registered
// clients, and rentals from scheduling to return and payment.
package rental

import "strings"

// Car is a vehicle of the fleet.
type Car struct {
	Model     string  `json:"model"`
	Plate     string  `json:"plate"`
	Color     string  `json:"color"`
	DailyRate float64 `json:"daily_rate"`
}

// Client is a registered customer, keyed by CPF.
type Client struct {
	Name  string `json:"name"`
	CPF   string `json:"cpf"`
	Phone string `json:"phone"`
}

// Status of a rental.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Payment is how a rental was paid.
type Payment string

const (
	PaymentCash Payment = "cash"
	PaymentPix  Payment = "pix"
	PaymentCard Payment = "card"
)

// ParsePayment maps a payment method name to a Payment. An empty name
// means Pix.
func ParsePayment(s string) (Payment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PaymentPix, nil
	case "cash", "dinheiro":
		return PaymentCash, nil
	case "pix":
		return PaymentPix, nil
	case "card", "cartão", "cartao":
		return PaymentCard, nil
	}
	return "", ErrInvalidPayment
}

// Rental is a car hired by a client for a date range.
type Rental struct {
	ID         string  `json:"id"`
	ClientName string  `json:"client_name"`
	ClientCPF  string  `json:"client_cpf"`
	Car        Car     `json:"car"`
	Start      string  `json:"start"` // YYYY-MM-DD
	End        string  `json:"end"`   // expected, then actual end once closed
	DailyRate  float64 `json:"daily_rate"`
	Total      float64 `json:"total"`
	Status     Status  `json:"status"`
	Payment    Payment `json:"payment,omitempty"`
}

// NewCar is what's required to register a car. DailyRate accepts a comma
// or a dot as the decimal separator.
type NewCar struct {
	Model     string `json:"model" validate:"notblank"`
	Plate     string `json:"plate" validate:"notblank"`
	Color     string `json:"color"`
	DailyRate string `json:"daily_rate" validate:"notblank"`
}

// NewClient is what's required to register a client.
type NewClient struct {
	Name  string `json:"name" validate:"notblank"`
	CPF   string `json:"cpf" validate:"notblank"`
	Phone string `json:"phone"`
}

// Booking schedules a rental.
type Booking struct {
	CPF   string `json:"cpf" validate:"notblank"`
	Plate string `json:"plate" validate:"notblank"`
	Start string `json:"start" validate:"isodate"`
	End   string `json:"end" validate:"isodate"`
}

// Quote is the outcome of scheduling a rental.
type Quote struct {
	Rental    Rental  `json:"rental"`
	Days      int     `json:"days"`
	DailyRate float64 `json:"daily_rate"`
	Total     float64 `json:"total"`
}

// Checkout closes a rental.
type Checkout struct {
	End     string `json:"end" validate:"isodate"`
	Payment string `json:"payment"`
	Cash    string `json:"cash"` // amount handed over, cash payments only
}

// Receipt is the outcome of returning a car.
type Receipt struct {
	Rental Rental  `json:"rental"`
	Days   int     `json:"days"`
	Total  float64 `json:"total"`
	Change float64 `json:"change"`
}

// Report summarizes the desk's rentals.
type Report struct {
	Open     int     `json:"open"`
	Closed   int     `json:"closed"`
	Realized float64 `json:"realized"` // sum of closed totals
	Forecast float64 `json:"forecast"` // sum of open totals
	Overall  float64 `json:"overall"`
}
