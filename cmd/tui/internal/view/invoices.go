package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kpraj/billbook/internal/business"
	"github.com/kpraj/billbook/internal/invoice"
	"github.com/kpraj/billbook/internal/render"
)

// InvoicesModel lists persisted invoices and re-exports their documents.
type InvoicesModel struct {
	CommonModel
	invoiceService  *invoice.Service
	businessService *business.Service
	renderer        *render.Renderer

	table    table.Model
	invoices []*invoice.Invoice

	loading bool
	status  string
}

func NewInvoicesModel(invoiceSvc *invoice.Service, businessSvc *business.Service, renderer *render.Renderer) InvoicesModel {
	columns := []table.Column{
		{Title: "Number", Width: 14},
		{Title: "Date", Width: 12},
		{Title: "Customer", Width: 30},
		{Title: "Total", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
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
	t.SetStyles(s)

	return InvoicesModel{
		invoiceService:  invoiceSvc,
		businessService: businessSvc,
		renderer:        renderer,
		table:           t,
		loading:         true,
	}
}

func (m InvoicesModel) Init() tea.Cmd {
	return m.loadInvoicesCmd()
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvoicesMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.invoices = msg.invoices
		m.refreshTable()

		return m, nil

	case exportDocMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.status = fmt.Sprintf("Document written to %s", msg.path)
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadInvoicesCmd()
		case "enter":
			idx := m.table.Cursor()
			if idx >= 0 && idx < len(m.invoices) {
				return m, m.exportDocCmd(m.invoices[idx])
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvoicesModel) View() string {
	pad := lipgloss.NewStyle().Padding(1, 2)

	if m.loading {
		return pad.Render("Loading invoices...")
	}

	return pad.Render(fmt.Sprintf(
		"Invoices\n\n%s\n\n%s\n\n(Enter: export document | r: refresh | Esc: back)",
		m.table.View(), m.status,
	))
}

func (m *InvoicesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invoices))
	for _, inv := range m.invoices {
		rows = append(rows, table.Row{
			inv.Number,
			FormatDate(inv.CreatedAt),
			inv.CustomerName,
			FormatAmount(inv.GrandTotal),
		})
	}

	m.table.SetRows(rows)
}

type loadInvoicesMsg struct {
	invoices []*invoice.Invoice
	err      error
}

func (m InvoicesModel) loadInvoicesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invoices, err := m.invoiceService.List(ctx, invoice.ListFilter{})

		return loadInvoicesMsg{invoices: invoices, err: err}
	}
}

type exportDocMsg struct {
	path string
	err  error
}

func (m InvoicesModel) exportDocCmd(inv *invoice.Invoice) tea.Cmd {
	return func() tea.Msg {
		path, err := writeDocument(m.renderer, m.businessService, inv)
		return exportDocMsg{path: path, err: err}
	}
}
