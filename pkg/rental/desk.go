package rental

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tallybook/tally/internal/validate"
)

var (
	ErrCarExists        = errors.New("a car with this plate is already registered")
	ErrClientExists     = errors.New("a client with this CPF is already registered")
	ErrClientNotFound   = errors.New("client not found")
	ErrCarUnavailable   = errors.New("car not found or unavailable")
	ErrRentalNotFound   = errors.New("rental not found")
	ErrRentalClosed     = errors.New("rental already closed")
	ErrInvalidDate      = errors.New("invalid date, use YYYY-MM-DD")
	ErrEndBeforeStart   = errors.New("return date cannot be before the start date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidPayment   = errors.New("payment must be cash, pix or card")
	ErrInsufficientCash = errors.New("cash amount does not cover the total")
)

// Desk is an in-memory rental desk. It is safe for concurrent use.
type Desk struct {
	mu      sync.RWMutex
	cars    []Car // available fleet; rented cars live on their rental
	clients []Client
	rentals []Rental

	newID func() string
}

// NewDesk returns an empty desk.
func NewDesk() *Desk {
	return &Desk{newID: func() string { return uuid.New().String() }}
}

// RegisterCar adds a car to the available fleet. Plates are unique,
// ignoring case, across the fleet and cars out on rental.
func (d *Desk) RegisterCar(nc NewCar) (Car, error) {
	nc.Model = validate.CleanString(nc.Model)
	nc.Plate = validate.CleanString(nc.Plate)
	nc.Color = validate.CleanString(nc.Color)
	if err := validate.Struct(nc); err != nil {
		return Car{}, err
	}
	rate, err := ParseAmount(nc.DailyRate)
	if err != nil {
		return Car{}, fmt.Errorf("daily rate: %w", err)
	}
	if err := validate.Var("daily_rate", rate, "gt=0"); err != nil {
		return Car{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.plateTaken(nc.Plate) {
		return Car{}, ErrCarExists
	}
	car := Car{Model: nc.Model, Plate: nc.Plate, Color: nc.Color, DailyRate: rate}
	d.cars = append(d.cars, car)
	return car, nil
}

// RegisterClient adds a client. CPFs are unique.
func (d *Desk) RegisterClient(nc NewClient) (Client, error) {
	nc.Name = validate.CleanString(nc.Name)
	nc.CPF = validate.CleanString(nc.CPF)
	nc.Phone = validate.CleanString(nc.Phone)
	if err := validate.Struct(nc); err != nil {
		return Client{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, c := range d.clients {
		if c.CPF == nc.CPF {
			return Client{}, ErrClientExists
		}
	}
	client := Client{Name: nc.Name, CPF: nc.CPF, Phone: nc.Phone}
	d.clients = append(d.clients, client)
	return client, nil
}

// Schedule rents an available car to a client. The car leaves the
// available fleet until it is returned.
func (d *Desk) Schedule(b Booking) (Quote, error) {
	b.CPF = validate.CleanString(b.CPF)
	b.Plate = validate.CleanString(b.Plate)
	b.Start = validate.CleanString(b.Start)
	b.End = validate.CleanString(b.End)
	if err := validate.Struct(b); err != nil {
		return Quote{}, err
	}
	if err := checkOrder(b.Start, b.End); err != nil {
		return Quote{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	client, ok := d.client(b.CPF)
	if !ok {
		return Quote{}, ErrClientNotFound
	}
	idx := -1
	for i, c := range d.cars {
		if strings.EqualFold(c.Plate, b.Plate) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Quote{}, ErrCarUnavailable
	}

	car := d.cars[idx]
	days, _ := Days(b.Start, b.End)
	r := Rental{
		ID:         d.newID(),
		ClientName: client.Name,
		ClientCPF:  client.CPF,
		Car:        car,
		Start:      b.Start,
		End:        b.End,
		DailyRate:  car.DailyRate,
		Total:      Price(days, car.DailyRate),
		Status:     StatusOpen,
	}
	d.cars = append(d.cars[:idx], d.cars[idx+1:]...)
	d.rentals = append(d.rentals, r)
	return Quote{Rental: r, Days: days, DailyRate: r.DailyRate, Total: r.Total}, nil
}

// Return closes an open rental on its actual end date. The total is
// recomputed from the actual days; a cash payment must cover it and the
// change is returned on the receipt. The car rejoins the fleet.
func (d *Desk) Return(id string, co Checkout) (Receipt, error) {
	co.End = validate.CleanString(co.End)
	if err := validate.Struct(co); err != nil {
		return Receipt{}, err
	}
	payment, err := ParsePayment(co.Payment)
	if err != nil {
		return Receipt{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	idx := d.rentalIndex(id)
	if idx < 0 {
		return Receipt{}, ErrRentalNotFound
	}
	r := d.rentals[idx]
	if r.Status != StatusOpen {
		return Receipt{}, ErrRentalClosed
	}
	if err := checkOrder(r.Start, co.End); err != nil {
		return Receipt{}, err
	}

	days, _ := Days(r.Start, co.End)
	total := Price(days, r.DailyRate)

	var change float64
	if payment == PaymentCash {
		cash, err := ParseAmount(co.Cash)
		if err != nil {
			return Receipt{}, fmt.Errorf("cash: %w", err)
		}
		if cash < total {
			return Receipt{}, ErrInsufficientCash
		}
		change = round2(cash - total)
	}

	r.End = co.End
	r.Total = total
	r.Status = StatusClosed
	r.Payment = payment
	d.rentals[idx] = r
	d.cars = append(d.cars, r.Car)

	return Receipt{Rental: r, Days: days, Total: total, Change: change}, nil
}

// Rental returns a rental by id.
func (d *Desk) Rental(id string) (Rental, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	idx := d.rentalIndex(id)
	if idx < 0 {
		return Rental{}, ErrRentalNotFound
	}
	return d.rentals[idx], nil
}

// Cars returns the available fleet in registration order.
func (d *Desk) Cars() []Car {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Car{}, d.cars...)
}

// Clients returns the registered clients in registration order.
func (d *Desk) Clients() []Client {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Client{}, d.clients...)
}

// Rentals returns every rental, oldest first.
func (d *Desk) Rentals() []Rental {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Rental{}, d.rentals...)
}

// OpenRentals returns the rentals whose car has not been returned yet.
func (d *Desk) OpenRentals() []Rental {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := []Rental{}
	for _, r := range d.rentals {
		if r.Status == StatusOpen {
			out = append(out, r)
		}
	}
	return out
}

// Report sums realized and forecast revenue.
func (d *Desk) Report() Report {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var rep Report
	for _, r := range d.rentals {
		switch r.Status {
		case StatusOpen:
			rep.Open++
			rep.Forecast += r.Total
		case StatusClosed:
			rep.Closed++
			rep.Realized += r.Total
		}
	}
	rep.Realized = round2(rep.Realized)
	rep.Forecast = round2(rep.Forecast)
	rep.Overall = round2(rep.Realized + rep.Forecast)
	return rep
}

type snapshot struct {
	Cars    []Car    `json:"cars"`
	Clients []Client `json:"clients"`
	Rentals []Rental `json:"rentals"`
}

// Snapshot encodes the whole desk as JSON.
func (d *Desk) Snapshot() ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return json.Marshal(snapshot{Cars: d.cars, Clients: d.clients, Rentals: d.rentals})
}

// Restore replaces the contents of the desk with a Snapshot.
func (d *Desk) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decoding rental desk: %w", err)
	}

	d.mu.Lock()
	d.cars, d.clients, d.rentals = snap.Cars, snap.Clients, snap.Rentals
	d.mu.Unlock()
	return nil
}

func (d *Desk) plateTaken(plate string) bool {
	for _, c := range d.cars {
		if strings.EqualFold(c.Plate, plate) {
			return true
		}
	}
	for _, r := range d.rentals {
		if r.Status == StatusOpen && strings.EqualFold(r.Car.Plate, plate) {
			return true
		}
	}
	return false
}

func (d *Desk) client(cpf string) (Client, bool) {
	for _, c := range d.clients {
		if c.CPF == cpf {
			return c, true
		}
	}
	return Client{}, false
}

func (d *Desk) rentalIndex(id string) int {
	for i, r := range d.rentals {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func checkOrder(start, end string) error {
	s, err := ParseDate(start)
	if err != nil {
		return err
	}
	e, err := ParseDate(end)
	if err != nil {
		return err
	}
	if e.Before(s) {
		return ErrEndBeforeStart
	}
	return nil
}
