package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/kpraj/billbook/cmd/tui/internal/view"
	"github.com/kpraj/billbook/internal/business"
	businessStore "github.com/kpraj/billbook/internal/business/store"
	"github.com/kpraj/billbook/internal/catalog"
	catalogStore "github.com/kpraj/billbook/internal/catalog/store"
	"github.com/kpraj/billbook/internal/config"
	"github.com/kpraj/billbook/internal/database"
	"github.com/kpraj/billbook/internal/identity"
	"github.com/kpraj/billbook/internal/invoice"
	invoiceStore "github.com/kpraj/billbook/internal/invoice/store"
	"github.com/kpraj/billbook/internal/render"
)

type model struct {
	catalogService  *catalog.Service
	invoiceService  *invoice.Service
	businessService *business.Service
	renderer        *render.Renderer
	operator        identity.Identity

	currentView View

	composeView  view.ComposeModel
	invoicesView view.InvoicesModel
}

type View int

const (
	ViewMenu     View = 0
	ViewCompose  View = 1
	ViewInvoices View = 2
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to build renderer", "error", err)
		os.Exit(1)
	}

	catalogSvc := catalog.NewService(catalogStore.New(db))
	invoiceSvc := invoice.NewService(invoiceStore.New(db))
	businessSvc := business.NewService(businessStore.New(db))

	// The TUI is a single-operator tool running next to the database, so
	// the submitter identity comes from the environment rather than a
	// bearer token.
	operator := identity.Identity{Subject: cfg.TUI.Operator}

	return model{
		catalogService:  catalogSvc,
		invoiceService:  invoiceSvc,
		businessService: businessSvc,
		renderer:        renderer,
		operator:        operator,
		currentView:     ViewMenu,
		composeView:     view.NewComposeModel(catalogSvc, invoiceSvc, businessSvc, renderer, operator),
		invoicesView:    view.NewInvoicesModel(invoiceSvc, businessSvc, renderer),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewCompose
				m.composeView = view.NewComposeModel(
					m.catalogService, m.invoiceService, m.businessService, m.renderer, m.operator)

				return m, m.composeView.Init()
			case "2":
				m.currentView = ViewInvoices
				m.invoicesView = view.NewInvoicesModel(m.invoiceService, m.businessService, m.renderer)

				return m, m.invoicesView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewCompose:
		var updated tea.Model

		updated, cmd = m.composeView.Update(msg)
		if cv, ok := updated.(view.ComposeModel); ok {
			m.composeView = cv
		}

		return m, cmd
	case ViewInvoices:
		var updated tea.Model

		updated, cmd = m.invoicesView.Update(msg)
		if iv, ok := updated.(view.InvoicesModel); ok {
			m.invoicesView = iv
		}

		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	switch m.currentView {
	case ViewCompose:
		return m.composeView.View()
	case ViewInvoices:
		return m.invoicesView.View()
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("57"))

	return lipgloss.NewStyle().Padding(1, 2).Render(fmt.Sprintf(
		"%s\n\n1. Compose invoice\n2. Browse invoices\n\nq: quit",
		title.Render("BillBook"),
	))
}

func main() {
	if _, err := tea.NewProgram(initialModel(), tea.WithAltScreen()).Run(); err != nil {
		slog.Error("tui failed", "error", err)
		os.Exit(1)
	}
}
