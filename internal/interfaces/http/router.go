package http

import (
	"github.com/gofiber/fiber/v2"
	appjournal "github.com/jhoicas/kardex-api/internal/application/journal"
	"github.com/jhoicas/kardex-api/internal/application/query"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	JournalUC     *appjournal.UseCase
	BalanceUC     *query.BalanceUseCase
	ProvisionalUC *query.ProvisionalUseCase
	LedgerUC      *query.LedgerUseCase
	Kardex        KardexGenerator
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", ActorMiddleware(deps.JWTSecret))

	// Ciclo de vida de diarios
	journals := api.Group("/journals")
	journalHandler := NewJournalHandler(deps.JournalUC)
	journals.Post("/", journalHandler.Create)
	journals.Get("/:id", journalHandler.GetByID)
	journals.Post("/:id/confirm", journalHandler.Confirm)
	journals.Post("/:id/cancel", journalHandler.Cancel)
	journals.Post("/:id/post", journalHandler.Post)
	journals.Post("/:id/reverse", journalHandler.Reverse)

	// Balances posteados y provisionales
	balances := api.Group("/balances")
	balanceHandler := NewBalanceHandler(deps.BalanceUC, deps.ProvisionalUC)
	balances.Get("/provisional", balanceHandler.GetProvisional)
	balances.Get("/", balanceHandler.GetBalance)

	// Kardex (mayor de existencias)
	ledger := api.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.LedgerUC, deps.Kardex)
	ledger.Get("/pdf", ledgerHandler.GetLedgerPDF)
	ledger.Get("/", ledgerHandler.GetLedger)
}
