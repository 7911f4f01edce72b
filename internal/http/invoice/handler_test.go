package invoice_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kpraj/billbook/internal/business"
	invoiceHandler "github.com/kpraj/billbook/internal/http/invoice"
	"github.com/kpraj/billbook/internal/identity"
	"github.com/kpraj/billbook/internal/invoice"
	"github.com/kpraj/billbook/internal/money"
	"github.com/kpraj/billbook/internal/render"
)

// profileStub satisfies business.Repository without a database.
type profileStub struct {
	profile *business.Profile
}

func (s *profileStub) GetProfile(context.Context) (*business.Profile, error) {
	if s.profile == nil {
		return nil, business.ErrNotFound
	}

	return s.profile, nil
}

func newRouter(t *testing.T, repo invoice.Repository, profile *business.Profile) http.Handler {
	t.Helper()

	renderer, err := render.New()
	require.NoError(t, err)

	h := invoiceHandler.NewHandler(
		invoice.NewService(repo),
		business.NewService(&profileStub{profile: profile}),
		renderer,
	)

	r := chi.NewRouter()
	r.Route("/invoices", h.Routes)

	return r
}

func authed(req *http.Request) *http.Request {
	ctx := identity.NewContext(req.Context(), identity.Identity{Subject: "user-alice"})
	return req.WithContext(ctx)
}

func persistedInvoice() *invoice.Invoice {
	return &invoice.Invoice{
		ID:            uuid.MustParse("5cc20d33-64e6-4a7e-8878-87486304818e"),
		Number:        "INV-000042",
		CustomerName:  "Alice",
		CustomerPhone: "555-0100",
		CreatedBy:     "user-alice",
		CreatedAt:     time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		GrandTotal:    money.FromMinor(3900),
		Lines: []invoice.Line{
			{ProductName: "Widget", UnitPrice: money.FromMinor(1000), Quantity: 3, LineTotal: money.FromMinor(3000)},
			{ProductName: "Gadget", UnitPrice: money.FromMinor(450), Quantity: 2, LineTotal: money.FromMinor(900)},
		},
	}
}

const submitBody = `{
	"customer_name": "Alice",
	"customer_phone": "555-0100",
	"lines": [
		{"product_name": "Widget", "unit_price": 1000, "quantity": 3},
		{"product_name": "Gadget", "unit_price": 450, "quantity": 2}
	]
}`

func TestHandler_Submit_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := newRouter(t, invoice.NewMockRepository(ctrl), nil)

	req := httptest.NewRequest(http.MethodPost, "/invoices/", strings.NewReader(submitBody))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_Submit_ValidationBeforeStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: a draft with no lines must never reach the store.
	router := newRouter(t, invoice.NewMockRepository(ctrl), nil)

	body := `{"customer_name": "Alice", "customer_phone": "555-0100", "lines": []}`
	req := authed(httptest.NewRequest(http.MethodPost, "/invoices/", strings.NewReader(body)))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "lines")
}

func TestHandler_Submit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().
		CreateInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
			inv.ID = uuid.New()
			inv.Number = "INV-000042"
			inv.CreatedAt = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
			return nil
		})

	router := newRouter(t, repo, nil)

	req := authed(httptest.NewRequest(http.MethodPost, "/invoices/", strings.NewReader(submitBody)))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		InvoiceNumber string `json:"invoice_number"`
		CreatedBy     string `json:"created_by"`
		GrandTotal    int64  `json:"grand_total"`
		Lines         []struct {
			LineTotal int64 `json:"line_total"`
		} `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "INV-000042", resp.InvoiceNumber)
	assert.Equal(t, "user-alice", resp.CreatedBy)
	assert.Equal(t, int64(3900), resp.GrandTotal)
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, int64(3000), resp.Lines[0].LineTotal)
	assert.Equal(t, int64(900), resp.Lines[1].LineTotal)
}

func TestHandler_Get_HiddenFromOtherUsers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inv := persistedInvoice()
	inv.CreatedBy = "user-bob"

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)

	router := newRouter(t, repo, nil)

	req := authed(httptest.NewRequest(http.MethodGet, "/invoices/"+inv.ID.String(), nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Document_HTML(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inv := persistedInvoice()

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)

	profile := &business.Profile{Name: "Sharma Traders", Address: "14 MG Road, Pune"}
	router := newRouter(t, repo, profile)

	req := authed(httptest.NewRequest(http.MethodGet, "/invoices/"+inv.ID.String()+"/document", nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "Sharma Traders")
	assert.Contains(t, body, "#INV-000042")
	assert.Contains(t, body, "Thank you for your business!")
}

func TestHandler_Document_MissingProfileStillRenders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inv := persistedInvoice()

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)

	router := newRouter(t, repo, nil)

	req := authed(httptest.NewRequest(http.MethodGet, "/invoices/"+inv.ID.String()+"/document", nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your Business")
}

func TestHandler_Document_PDF(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inv := persistedInvoice()

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().GetInvoice(gomock.Any(), inv.ID).Return(inv, nil)

	router := newRouter(t, repo, nil)

	req := authed(httptest.NewRequest(http.MethodGet, "/invoices/"+inv.ID.String()+"/document?format=pdf", nil))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))
}
