package rental_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/tallybook/tally/internal/validate"
	"github.com/tallybook/tally/pkg/rental"
)

const cpf = "123.456.789-00"

func newDesk(t *testing.T) *rental.Desk {
	t.Helper()
	d := rental.NewDesk()
	for _, nc := range []rental.NewCar{
		{Model: "Gol", Plate: "ABC1D23", Color: "Branco", DailyRate: "120,50"},
		{Model: "Onix", Plate: "XYZ9K87", Color: "Prata", DailyRate: "150"},
	} {
		if _, err := d.RegisterCar(nc); err != nil {
			t.Fatalf("RegisterCar(%s) error: %v", nc.Plate, err)
		}
	}
	if _, err := d.RegisterClient(rental.NewClient{Name: "Maria", CPF: cpf, Phone: "11 99999-0000"}); err != nil {
		t.Fatalf("RegisterClient() error: %v", err)
	}
	return d
}

func schedule(t *testing.T, d *rental.Desk, plate, start, end string) rental.Quote {
	t.Helper()
	q, err := d.Schedule(rental.Booking{CPF: cpf, Plate: plate, Start: start, End: end})
	if err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}
	return q
}

func TestRegisterCar(t *testing.T) {
	d := newDesk(t)

	cars := d.Cars()
	if len(cars) != 2 || cars[0].DailyRate != 120.5 {
		t.Fatalf("unexpected fleet %+v", cars)
	}

	_, err := d.RegisterCar(rental.NewCar{Model: "Uno", Plate: "abc1d23", DailyRate: "90"})
	if !errors.Is(err, rental.ErrCarExists) {
		t.Errorf("expected ErrCarExists for a plate differing in case, got %v", err)
	}

	tests := []struct {
		name  string
		car   rental.NewCar
		check func(error) bool
	}{
		{"blank model", rental.NewCar{Plate: "P1", DailyRate: "10"}, validate.IsValidationError},
		{"blank plate", rental.NewCar{Model: "M", DailyRate: "10"}, validate.IsValidationError},
		{"bad rate", rental.NewCar{Model: "M", Plate: "P1", DailyRate: "ten"}, func(err error) bool { return errors.Is(err, rental.ErrInvalidAmount) }},
		{"zero rate", rental.NewCar{Model: "M", Plate: "P1", DailyRate: "0"}, validate.IsValidationError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.RegisterCar(tc.car)
			if err == nil || !tc.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRegisterClient(t *testing.T) {
	d := newDesk(t)
	_, err := d.RegisterClient(rental.NewClient{Name: "Other", CPF: cpf})
	if !errors.Is(err, rental.ErrClientExists) {
		t.Errorf("expected ErrClientExists, got %v", err)
	}
	_, err = d.RegisterClient(rental.NewClient{Name: " ", CPF: "1"})
	if !validate.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if len(d.Clients()) != 1 {
		t.Errorf("expected 1 client, got %d", len(d.Clients()))
	}
}

func TestSchedule(t *testing.T) {
	d := newDesk(t)

	q := schedule(t, d, "abc1d23", "2024-03-01", "2024-03-04")
	if q.Days != 3 || q.DailyRate != 120.5 || q.Total != 361.5 {
		t.Errorf("unexpected quote %+v", q)
	}
	if q.Rental.ID == "" || q.Rental.Status != rental.StatusOpen || q.Rental.ClientName != "Maria" {
		t.Errorf("unexpected rental %+v", q.Rental)
	}
	if cars := d.Cars(); len(cars) != 1 || cars[0].Plate != "XYZ9K87" {
		t.Errorf("rented car should leave the fleet, got %+v", cars)
	}

	// same-day rentals bill one day
	q = schedule(t, d, "XYZ9K87", "2024-03-01", "2024-03-01")
	if q.Days != 1 || q.Total != 150 {
		t.Errorf("unexpected same-day quote %+v", q)
	}

	// a rented plate cannot be registered again
	if _, err := d.RegisterCar(rental.NewCar{Model: "Gol", Plate: "ABC1D23", DailyRate: "1"}); !errors.Is(err, rental.ErrCarExists) {
		t.Errorf("expected ErrCarExists for a rented plate, got %v", err)
	}
}

func TestScheduleErrors(t *testing.T) {
	d := newDesk(t)
	tests := []struct {
		name  string
		b     rental.Booking
		check func(error) bool
	}{
		{"unknown client", rental.Booking{CPF: "000", Plate: "ABC1D23", Start: "2024-01-01", End: "2024-01-02"}, errIs(rental.ErrClientNotFound)},
		{"unknown car", rental.Booking{CPF: cpf, Plate: "NOPE", Start: "2024-01-01", End: "2024-01-02"}, errIs(rental.ErrCarUnavailable)},
		{"bad date", rental.Booking{CPF: cpf, Plate: "ABC1D23", Start: "01/01/2024", End: "2024-01-02"}, validate.IsValidationError},
		{"end before start", rental.Booking{CPF: cpf, Plate: "ABC1D23", Start: "2024-01-05", End: "2024-01-02"}, errIs(rental.ErrEndBeforeStart)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.Schedule(tc.b)
			if err == nil || !tc.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
	if len(d.Rentals()) != 0 || len(d.Cars()) != 2 {
		t.Error("failed bookings must not change the desk")
	}
}

func errIs(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func TestReturn(t *testing.T) {
	d := newDesk(t)
	q := schedule(t, d, "ABC1D23", "2024-03-01", "2024-03-04")

	_, err := d.Return(q.Rental.ID, rental.Checkout{End: "2024-03-06", Payment: "cash", Cash: "600"})
	if !errors.Is(err, rental.ErrInsufficientCash) {
		t.Fatalf("expected ErrInsufficientCash, got %v", err)
	}

	rc, err := d.Return(q.Rental.ID, rental.Checkout{End: "2024-03-06", Payment: "cash", Cash: "700,00"})
	if err != nil {
		t.Fatalf("Return() error: %v", err)
	}
	if rc.Days != 5 || rc.Total != 602.5 || rc.Change != 97.5 {
		t.Errorf("unexpected receipt %+v", rc)
	}
	if rc.Rental.Status != rental.StatusClosed || rc.Rental.Payment != rental.PaymentCash || rc.Rental.End != "2024-03-06" {
		t.Errorf("unexpected closed rental %+v", rc.Rental)
	}
	if len(d.Cars()) != 2 {
		t.Error("returned car should rejoin the fleet")
	}
	if len(d.OpenRentals()) != 0 {
		t.Error("expected no open rentals")
	}

	_, err = d.Return(q.Rental.ID, rental.Checkout{End: "2024-03-06", Payment: "pix"})
	if !errors.Is(err, rental.ErrRentalClosed) {
		t.Errorf("expected ErrRentalClosed, got %v", err)
	}
	_, err = d.Return("missing", rental.Checkout{End: "2024-03-06"})
	if !errors.Is(err, rental.ErrRentalNotFound) {
		t.Errorf("expected ErrRentalNotFound, got %v", err)
	}
}

func TestReturnDefaultsToPix(t *testing.T) {
	d := newDesk(t)
	q := schedule(t, d, "XYZ9K87", "2024-03-01", "2024-03-02")

	rc, err := d.Return(q.Rental.ID, rental.Checkout{End: "2024-03-01"})
	if err != nil {
		t.Fatalf("Return() error: %v", err)
	}
	if rc.Rental.Payment != rental.PaymentPix || rc.Change != 0 || rc.Days != 1 {
		t.Errorf("unexpected receipt %+v", rc)
	}

	q = schedule(t, d, "XYZ9K87", "2024-03-10", "2024-03-12")
	if _, err := d.Return(q.Rental.ID, rental.Checkout{End: "2024-03-09"}); !errors.Is(err, rental.ErrEndBeforeStart) {
		t.Errorf("expected ErrEndBeforeStart, got %v", err)
	}
	if _, err := d.Return(q.Rental.ID, rental.Checkout{End: "2024-03-12", Payment: "boleto"}); !errors.Is(err, rental.ErrInvalidPayment) {
		t.Errorf("expected ErrInvalidPayment, got %v", err)
	}
}

func TestReport(t *testing.T) {
	d := newDesk(t)
	closed := schedule(t, d, "ABC1D23", "2024-03-01", "2024-03-03")
	schedule(t, d, "XYZ9K87", "2024-03-01", "2024-03-03")

	if _, err := d.Return(closed.Rental.ID, rental.Checkout{End: "2024-03-03", Payment: "card"}); err != nil {
		t.Fatalf("Return() error: %v", err)
	}

	got := d.Report()
	want := rental.Report{Open: 1, Closed: 1, Realized: 241, Forecast: 300, Overall: 541}
	if got != want {
		t.Errorf("Report() = %+v, want %+v", got, want)
	}
}

func TestSnapshotRestore(t *testing.T) {
	d := newDesk(t)
	schedule(t, d, "ABC1D23", "2024-03-01", "2024-03-03")

	data, err := d.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error: %v", err)
	}
	restored := rental.NewDesk()
	if err := restored.Restore(data); err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if !reflect.DeepEqual(d.Rentals(), restored.Rentals()) || !reflect.DeepEqual(d.Cars(), restored.Cars()) {
		t.Error("restored desk differs from the original")
	}
	if restored.Report() != d.Report() {
		t.Error("restored report differs")
	}
}
