package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kpraj/billbook/internal/business"
	"github.com/kpraj/billbook/internal/identity"
	"github.com/kpraj/billbook/internal/invoice"
	"github.com/kpraj/billbook/internal/money"
	"github.com/kpraj/billbook/internal/render"
)

type Handler struct {
	svc      *invoice.Service
	business *business.Service
	renderer *render.Renderer
}

func NewHandler(svc *invoice.Service, businessSvc *business.Service, renderer *render.Renderer) *Handler {
	return &Handler{svc: svc, business: businessSvc, renderer: renderer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.submit)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/document", h.document)
}

type lineRequest struct {
	ProductName string `json:"product_name"`
	UnitPrice   int64  `json:"unit_price"` // minor units, snapshotted at add time
	Quantity    int64  `json:"quantity"`
}

type submitRequest struct {
	CustomerName    string        `json:"customer_name"`
	CustomerAddress string        `json:"customer_address,omitempty"`
	CustomerEmail   string        `json:"customer_email,omitempty"`
	CustomerPhone   string        `json:"customer_phone"`
	Lines           []lineRequest `json:"lines"`
}

type lineResponse struct {
	ProductName string `json:"product_name"`
	UnitPrice   int64  `json:"unit_price"`
	Quantity    int64  `json:"quantity"`
	LineTotal   int64  `json:"line_total"`
}

type invoiceResponse struct {
	ID              uuid.UUID      `json:"id"`
	InvoiceNumber   string         `json:"invoice_number"`
	CustomerName    string         `json:"customer_name"`
	CustomerAddress string         `json:"customer_address,omitempty"`
	CustomerEmail   string         `json:"customer_email,omitempty"`
	CustomerPhone   string         `json:"customer_phone"`
	CreatedBy       string         `json:"created_by"`
	CreatedAt       time.Time      `json:"created_at"`
	GrandTotal      int64          `json:"grand_total"`
	Lines           []lineResponse `json:"lines"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.Number,
		CustomerName:    inv.CustomerName,
		CustomerAddress: inv.CustomerAddress,
		CustomerEmail:   inv.CustomerEmail,
		CustomerPhone:   inv.CustomerPhone,
		CreatedBy:       inv.CreatedBy,
		CreatedAt:       inv.CreatedAt,
		GrandTotal:      inv.GrandTotal.Minor(),
		Lines:           make([]lineResponse, 0, len(inv.Lines)),
	}

	for _, line := range inv.Lines {
		resp.Lines = append(resp.Lines, lineResponse{
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice.Minor(),
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal.Minor(),
		})
	}

	return resp
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	submitter, err := identity.FromContext(r.Context())
	if err != nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := invoice.SubmitParams{
		CustomerName:    req.CustomerName,
		CustomerAddress: req.CustomerAddress,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		Lines:           make([]invoice.LineParams, 0, len(req.Lines)),
	}

	for _, line := range req.Lines {
		params.Lines = append(params.Lines, invoice.LineParams{
			ProductName: line.ProductName,
			UnitPrice:   money.FromMinor(line.UnitPrice),
			Quantity:    line.Quantity,
		})
	}

	inv, err := h.svc.Submit(r.Context(), params, submitter)
	if err != nil {
		writeSubmitError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeSubmitError(w http.ResponseWriter, err error) {
	var vErr *invoice.ValidationError
	if errors.As(err, &vErr) {
		http.Error(w, vErr.Error(), http.StatusBadRequest)
		return
	}

	if errors.Is(err, invoice.ErrAuthRequired) {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var pErr *invoice.PersistenceError
	if errors.As(err, &pErr) {
		slog.Error("invoice persistence failed", "error", err)
		http.Error(w, "could not save invoice, please retry", http.StatusBadGateway)

		return
	}

	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	submitter, err := identity.FromContext(r.Context())
	if err != nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	invoices, err := h.svc.List(r.Context(), invoice.ListFilter{CreatedBy: &submitter.Subject})
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	responses := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		responses = append(responses, toResponse(inv))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(responses); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// ownedInvoice loads the invoice and hides it from anyone but its submitter.
func (h *Handler) ownedInvoice(w http.ResponseWriter, r *http.Request) *invoice.Invoice {
	submitter, err := identity.FromContext(r.Context())
	if err != nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return nil
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			http.Error(w, "invoice not found", http.StatusNotFound)
			return nil
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return nil
	}

	if inv.CreatedBy != submitter.Subject {
		http.Error(w, "invoice not found", http.StatusNotFound)
		return nil
	}

	return inv
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	inv := h.ownedInvoice(w, r)
	if inv == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// document renders a persisted invoice. A rendering failure never touches
// the invoice itself; the client can simply request the document again.
func (h *Handler) document(w http.ResponseWriter, r *http.Request) {
	inv := h.ownedInvoice(w, r)
	if inv == nil {
		return
	}

	profile, err := h.business.Get(r.Context())
	if err != nil {
		if !errors.Is(err, business.ErrNotFound) {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		profile = nil // render with placeholder identity
	}

	format := r.URL.Query().Get("format")

	switch format {
	case "pdf":
		out, err := h.renderer.PDF(inv, profile)
		if err != nil {
			writeRenderError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", inv.Number+".pdf"))

		if _, err := w.Write(out); err != nil {
			slog.Error("failed to write pdf", "error", err)
		}

	case "", "html":
		out, err := h.renderer.HTML(inv, profile)
		if err != nil {
			writeRenderError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		if _, err := w.Write(out); err != nil {
			slog.Error("failed to write document", "error", err)
		}

	default:
		http.Error(w, "unsupported format", http.StatusBadRequest)
	}
}

func writeRenderError(w http.ResponseWriter, err error) {
	if errors.Is(err, render.ErrUnavailable) {
		slog.Error("document rendering unavailable", "error", err)
		http.Error(w, "document rendering unavailable, invoice is saved and can be rendered later", http.StatusServiceUnavailable)

		return
	}

	http.Error(w, "internal error", http.StatusInternalServerError)
}
