package api

import (
	"log"
	"net/http"

	"github.com/tallybook/tally/internal/export"
	"github.com/tallybook/tally/internal/store"
	"github.com/tallybook/tally/pkg/rental"
)

func (h *Handler) handleListCars(w http.ResponseWriter, r *http.Request) {
	desk, _, err := h.desk(r.Context(), r.PathValue("desk"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, desk.Cars())
}

func (h *Handler) handleRegisterCar(w http.ResponseWriter, r *http.Request) {
	var nc rental.NewCar
	if err := decodeJSON(w, r, &nc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	id := r.PathValue("desk")
	desk, s, err := h.desk(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var car rental.Car
	err = h.mutate(r.Context(), store.KindDesk, id, s, func() error {
		var err error
		car, err = desk.RegisterCar(nc)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

func (h *Handler) handleListClients(w http.ResponseWriter, r *http.Request) {
	desk, _, err := h.desk(r.Context(), r.PathValue("desk"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, desk.Clients())
}

func (h *Handler) handleRegisterClient(w http.ResponseWriter, r *http.Request) {
	var nc rental.NewClient
	if err := decodeJSON(w, r, &nc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	id := r.PathValue("desk")
	desk, s, err := h.desk(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var client rental.Client
	err = h.mutate(r.Context(), store.KindDesk, id, s, func() error {
		var err error
		client, err = desk.RegisterClient(nc)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (h *Handler) handleListRentals(w http.ResponseWriter, r *http.Request) {
	desk, _, err := h.desk(r.Context(), r.PathValue("desk"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	switch r.URL.Query().Get("status") {
	case "":
		writeJSON(w, http.StatusOK, desk.Rentals())
	case string(rental.StatusOpen):
		writeJSON(w, http.StatusOK, desk.OpenRentals())
	case string(rental.StatusClosed):
		closed := []rental.Rental{}
		for _, rn := range desk.Rentals() {
			if rn.Status == rental.StatusClosed {
				closed = append(closed, rn)
			}
		}
		writeJSON(w, http.StatusOK, closed)
	default:
		writeError(w, http.StatusBadRequest, "status must be open or closed")
	}
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var b rental.Booking
	if err := decodeJSON(w, r, &b); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	id := r.PathValue("desk")
	desk, s, err := h.desk(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var quote rental.Quote
	err = h.mutate(r.Context(), store.KindDesk, id, s, func() error {
		var err error
		quote, err = desk.Schedule(b)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/desks/"+id+"/rentals/"+quote.Rental.ID)
	writeJSON(w, http.StatusCreated, quote)
}

func (h *Handler) handleGetRental(w http.ResponseWriter, r *http.Request) {
	desk, _, err := h.desk(r.Context(), r.PathValue("desk"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	rn, err := desk.Rental(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rn)
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	var co rental.Checkout
	if err := decodeJSON(w, r, &co); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	id := r.PathValue("desk")
	desk, s, err := h.desk(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var receipt rental.Receipt
	err = h.mutate(r.Context(), store.KindDesk, id, s, func() error {
		var err error
		receipt, err = desk.Return(r.PathValue("id"), co)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *Handler) handleRentalReport(w http.ResponseWriter, r *http.Request) {
	desk, _, err := h.desk(r.Context(), r.PathValue("desk"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, desk.Report())
}

func (h *Handler) handleExportRentals(w http.ResponseWriter, r *http.Request) {
	desk, _, err := h.desk(r.Context(), r.PathValue("desk"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"rentals.xlsx\"")
	if err := export.WriteRentals(w, desk.Rentals(), desk.Report()); err != nil {
		log.Printf("api: rentals export: %v", err)
	}
}
