package view

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kpraj/billbook/internal/business"
	"github.com/kpraj/billbook/internal/catalog"
	"github.com/kpraj/billbook/internal/draft"
	"github.com/kpraj/billbook/internal/identity"
	"github.com/kpraj/billbook/internal/invoice"
	"github.com/kpraj/billbook/internal/render"
)

type composeState int

const (
	composeStateCatalog composeState = iota
	composeStateLines
	composeStateCustomer
	composeStateSubmitting
	composeStateDone
)

// ComposeModel is the interactive draft editor: pick products from the
// catalog, adjust quantities, fill in the customer, and generate the
// invoice.
type ComposeModel struct {
	CommonModel
	catalogService  *catalog.Service
	invoiceService  *invoice.Service
	businessService *business.Service
	renderer        *render.Renderer
	operator        identity.Identity

	state composeState
	d     *draft.Draft

	products     []catalog.Product
	catalogTable table.Model
	linesTable   table.Model
	form         *huh.Form

	result  *invoice.Invoice
	docPath string
	status  string
	loading bool
}

func NewComposeModel(
	catalogSvc *catalog.Service,
	invoiceSvc *invoice.Service,
	businessSvc *business.Service,
	renderer *render.Renderer,
	operator identity.Identity,
) ComposeModel {
	catalogCols := []table.Column{
		{Title: "Product", Width: 40},
		{Title: "Price", Width: 14},
	}

	ct := table.New(
		table.WithColumns(catalogCols),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	lineCols := []table.Column{
		{Title: "Product", Width: 40},
		{Title: "Qty", Width: 6},
		{Title: "Rate", Width: 14},
		{Title: "Total", Width: 14},
	}

	lt := table.New(
		table.WithColumns(lineCols),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	ct.SetStyles(s)
	lt.SetStyles(s)

	return ComposeModel{
		catalogService:  catalogSvc,
		invoiceService:  invoiceSvc,
		businessService: businessSvc,
		renderer:        renderer,
		operator:        operator,
		state:           composeStateCatalog,
		d:               draft.New(),
		catalogTable:    ct,
		linesTable:      lt,
		loading:         true,
	}
}

func (m ComposeModel) Init() tea.Cmd {
	return m.loadCatalogCmd()
}

func (m ComposeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCatalogMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading catalog: %v", msg.err)
			return m, nil
		}

		m.products = msg.products
		m.refreshCatalogTable()

		return m, nil

	case submitResultMsg:
		return m.handleSubmitResult(msg)
	}

	switch m.state {
	case composeStateCatalog:
		return m.updateCatalog(msg)
	case composeStateLines:
		return m.updateLines(msg)
	case composeStateCustomer:
		return m.updateCustomer(msg)
	case composeStateDone:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "esc", "q":
				return m, Back
			case "n":
				m.state = composeStateCatalog
				m.result = nil
				m.docPath = ""
				m.status = ""

				return m, nil
			}
		}
	}

	return m, nil
}

func (m ComposeModel) updateCatalog(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, Back
		case "enter":
			if p := m.selectedProduct(); p != nil {
				m.d.AddProduct(*p)
				m.refreshLinesTable()
				m.status = fmt.Sprintf("Added %s", p.Name)
			}

			return m, nil
		case "tab", "l":
			if m.d.State() != draft.StateEmpty {
				m.state = composeStateLines
				m.linesTable.Focus()
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.catalogTable, cmd = m.catalogTable.Update(msg)

	return m, cmd
}

func (m ComposeModel) updateLines(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		lines := m.d.Lines()
		idx := m.linesTable.Cursor()

		switch key.String() {
		case "esc", "tab":
			m.state = composeStateCatalog
			m.linesTable.Blur()

			return m, nil
		case "+":
			if idx < len(lines) {
				m.d.SetQuantity(lines[idx].ProductID, lines[idx].Quantity+1)
				m.refreshLinesTable()
			}

			return m, nil
		case "-":
			// Dropping to zero removes the line.
			if idx < len(lines) {
				m.d.SetQuantity(lines[idx].ProductID, lines[idx].Quantity-1)
				m.refreshLinesTable()
			}

			return m, nil
		case "x":
			if idx < len(lines) {
				m.d.RemoveProduct(lines[idx].ProductID)
				m.refreshLinesTable()
			}

			return m, nil
		case "g":
			if m.d.State() == draft.StateEmpty {
				m.status = "Add at least one product first"
				return m, nil
			}

			m.form = m.customerForm()
			m.state = composeStateCustomer

			return m, m.form.Init()
		}

		if m.d.State() == draft.StateEmpty {
			m.state = composeStateCatalog
			m.linesTable.Blur()
		}
	}

	var cmd tea.Cmd
	m.linesTable, cmd = m.linesTable.Update(msg)

	return m, cmd
}

func (m ComposeModel) updateCustomer(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.state = composeStateLines
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if err := m.d.BeginSubmit(); err != nil {
		m.status = err.Error()
		return m, nil
	}

	m.state = composeStateSubmitting
	m.status = "Generating invoice..."

	return m, m.submitCmd()
}

func (m ComposeModel) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Validation and auth failures keep the draft so the user can
		// correct and resubmit.
		m.d.EndSubmit(false)
		m.state = composeStateLines
		m.status = fmt.Sprintf("Error: %v", msg.err)

		return m, nil
	}

	m.d.EndSubmit(true)
	m.state = composeStateDone
	m.result = msg.inv
	m.docPath = msg.docPath
	m.refreshLinesTable()

	if msg.renderErr != nil {
		m.status = fmt.Sprintf("Invoice %s saved, but the document could not be rendered: %v. Export it again from the browse screen.",
			msg.inv.Number, msg.renderErr)
	} else {
		m.status = fmt.Sprintf("Invoice %s saved. Document: %s", msg.inv.Number, msg.docPath)
	}

	return m, nil
}

func (m ComposeModel) View() string {
	pad := lipgloss.NewStyle().Padding(1, 2)

	switch m.state {
	case composeStateCatalog:
		if m.loading {
			return pad.Render("Loading catalog...")
		}

		return pad.Render(fmt.Sprintf(
			"Compose Invoice - Catalog\n\n%s\n\nDraft: %d line(s), total %s\n%s\n\n(Enter: add | Tab: edit lines | Esc: back)",
			m.catalogTable.View(), len(m.d.Lines()), FormatAmount(m.d.Total()), m.status,
		))

	case composeStateLines:
		return pad.Render(fmt.Sprintf(
			"Compose Invoice - Line Items\n\n%s\n\nTotal: %s\n%s\n\n(+/-: quantity | x: remove | g: generate | Tab: catalog | Esc: back)",
			m.linesTable.View(), FormatAmount(m.d.Total()), m.status,
		))

	case composeStateCustomer:
		return pad.Render("Compose Invoice - Customer\n\n" + m.form.View())

	case composeStateSubmitting:
		return pad.Render("Generating invoice...")

	case composeStateDone:
		return pad.Render(fmt.Sprintf(
			"%s\n\n(n: new invoice | Esc: back)", m.status,
		))
	}

	return ""
}

func (m *ComposeModel) selectedProduct() *catalog.Product {
	idx := m.catalogTable.Cursor()
	if idx < 0 || idx >= len(m.products) {
		return nil
	}

	return &m.products[idx]
}

func (m *ComposeModel) refreshCatalogTable() {
	rows := make([]table.Row, 0, len(m.products))
	for _, p := range m.products {
		rows = append(rows, table.Row{p.Name, FormatAmount(p.UnitPrice)})
	}

	m.catalogTable.SetRows(rows)
}

func (m *ComposeModel) refreshLinesTable() {
	lines := m.d.Lines()

	rows := make([]table.Row, 0, len(lines))
	for _, li := range lines {
		rows = append(rows, table.Row{
			li.ProductName,
			strconv.FormatInt(li.Quantity, 10),
			FormatAmount(li.UnitPrice),
			FormatAmount(li.Subtotal()),
		})
	}

	m.linesTable.SetRows(rows)
}

func (m *ComposeModel) customerForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Customer name").
				Value(&m.d.CustomerName).
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Title("Phone").
				Value(&m.d.CustomerPhone).
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Title("Address (optional)").
				Value(&m.d.CustomerAddress),
			huh.NewInput().
				Title("Email (optional)").
				Value(&m.d.CustomerEmail),
		),
	)
}

type loadCatalogMsg struct {
	products []catalog.Product
	err      error
}

func (m ComposeModel) loadCatalogCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		products, err := m.catalogService.List(ctx)

		return loadCatalogMsg{products: products, err: err}
	}
}

type submitResultMsg struct {
	inv       *invoice.Invoice
	docPath   string
	renderErr error
	err       error
}

// submitCmd persists the draft and then renders the document. A rendering
// failure after a successful persist is reported separately: the invoice is
// already durable and can be exported again later.
func (m ComposeModel) submitCmd() tea.Cmd {
	params := invoice.SubmitParams{
		CustomerName:    m.d.CustomerName,
		CustomerAddress: m.d.CustomerAddress,
		CustomerEmail:   m.d.CustomerEmail,
		CustomerPhone:   m.d.CustomerPhone,
	}

	for _, li := range m.d.Lines() {
		params.Lines = append(params.Lines, invoice.LineParams{
			ProductName: li.ProductName,
			UnitPrice:   li.UnitPrice,
			Quantity:    li.Quantity,
		})
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		inv, err := m.invoiceService.Submit(ctx, params, m.operator)
		if err != nil {
			return submitResultMsg{err: err}
		}

		path, renderErr := writeDocument(m.renderer, m.businessService, inv)

		return submitResultMsg{inv: inv, docPath: path, renderErr: renderErr}
	}
}

func writeDocument(renderer *render.Renderer, businessSvc *business.Service, inv *invoice.Invoice) (string, error) {
	ctx, cancel := DbCtx()
	defer cancel()

	profile, err := businessSvc.Get(ctx)
	if err != nil {
		if !errors.Is(err, business.ErrNotFound) {
			return "", err
		}

		profile = nil
	}

	out, err := renderer.HTML(inv, profile)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll("invoices", 0o755); err != nil {
		return "", err
	}

	path := filepath.Join("invoices", inv.Number+".html")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", err
	}

	return path, nil
}
