package api

import (
	"log"
	"net/http"

	"github.com/tallybook/tally/internal/export"
	"github.com/tallybook/tally/internal/store"
	"github.com/tallybook/tally/pkg/gradebook"
	"github.com/tallybook/tally/pkg/scoring"
)

type electiveRequest struct {
	Subject string `json:"subject"`
}

type gradeRequest struct {
	Subject string   `json:"subject"`
	Term    int      `json:"term"`
	Grade   *decimal `json:"grade"` // null clears the term
}

func (h *Handler) handleClasses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gradebook.DefaultClassYears())
}

func (h *Handler) handleListStudents(w http.ResponseWriter, r *http.Request) {
	book, _, err := h.book(r.Context(), r.PathValue("book"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book.Students())
}

func (h *Handler) handleAddStudent(w http.ResponseWriter, r *http.Request) {
	var ns gradebook.NewStudent
	if err := decodeJSON(w, r, &ns); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	id := r.PathValue("book")
	book, s, err := h.book(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var student gradebook.Student
	err = h.mutate(r.Context(), store.KindGradebook, id, s, func() error {
		var err error
		student, err = book.AddStudent(ns)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

func (h *Handler) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	book, _, err := h.book(r.Context(), r.PathValue("book"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	student, err := book.Student(r.PathValue("name"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *Handler) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	var ns gradebook.NewStudent
	if err := decodeJSON(w, r, &ns); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	ns.ShortName = r.PathValue("name")

	id := r.PathValue("book")
	book, s, err := h.book(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var student gradebook.Student
	err = h.mutate(r.Context(), store.KindGradebook, id, s, func() error {
		var err error
		student, err = book.UpdateStudent(ns)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *Handler) handleRemoveStudent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("book")
	book, s, err := h.book(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	err = h.mutate(r.Context(), store.KindGradebook, id, s, func() error {
		return book.RemoveStudent(r.PathValue("name"))
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddElective(w http.ResponseWriter, r *http.Request) {
	var req electiveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	h.editStudent(w, r, func(book *gradebook.Book, name string) error {
		return book.AddElective(name, req.Subject)
	})
}

func (h *Handler) handleRemoveElective(w http.ResponseWriter, r *http.Request) {
	h.editStudent(w, r, func(book *gradebook.Book, name string) error {
		return book.RemoveElective(name, r.PathValue("subject"))
	})
}

func (h *Handler) handleSetGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var grade *float64
	if req.Grade != nil && *req.Grade != "" {
		v, err := scoring.ParseDecimal(string(*req.Grade))
		if err != nil {
			writeError(w, http.StatusBadRequest, "grade: "+err.Error())
			return
		}
		grade = &v
	}

	h.editStudent(w, r, func(book *gradebook.Book, name string) error {
		return book.SetGrade(name, req.Subject, req.Term, grade)
	})
}

// editStudent applies fn to the student named in the path and responds
// with the updated student.
func (h *Handler) editStudent(w http.ResponseWriter, r *http.Request, fn func(book *gradebook.Book, name string) error) {
	id := r.PathValue("book")
	name := r.PathValue("name")
	book, s, err := h.book(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var student gradebook.Student
	err = h.mutate(r.Context(), store.KindGradebook, id, s, func() error {
		if err := fn(book, name); err != nil {
			return err
		}
		var err error
		student, err = book.Student(name)
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *Handler) handleReportCard(w http.ResponseWriter, r *http.Request) {
	book, _, err := h.book(r.Context(), r.PathValue("book"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	report, err := book.Report(r.PathValue("name"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "pdf" {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=\""+report.ShortName+".pdf\"")
		if err := export.ReportCardPDF(w, report); err != nil {
			log.Printf("api: report card pdf: %v", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleExportGradebook(w http.ResponseWriter, r *http.Request) {
	book, _, err := h.book(r.Context(), r.PathValue("book"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var reports []gradebook.Report
	for _, st := range book.Students() {
		rep, err := book.Report(st.ShortName)
		if err != nil {
			// removed since Students() was read
			continue
		}
		reports = append(reports, rep)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"gradebook.xlsx\"")
	if err := export.WriteGradebook(w, reports); err != nil {
		log.Printf("api: gradebook export: %v", err)
	}
}
