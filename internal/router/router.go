package router

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/ishantswami13-crypto/wisewallet/internal/admin"
	handlers "github.com/ishantswami13-crypto/wisewallet/internal/http"
)

type Options struct {
	CorsOrigin  string
	ReadTimeout time.Duration
	WriteMax    int
	WriteWindow time.Duration
	Log         *slog.Logger
}

// NewApp builds the fiber app with the shared middleware chain: request id,
// panic recovery, CORS, request logging and pre-flight short-circuit.
func NewApp(opts Options) *fiber.App {
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	app := fiber.New(fiber.Config{
		AppName:               "wisewallet",
		ReadTimeout:           opts.ReadTimeout,
		DisableStartupMessage: true,
		ErrorHandler:          handlers.ErrorHandler(opts.Log),
	})

	app.Use(requestid.New())
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			opts.Log.Error("panic recovered", "path", c.Path(), "panic", e)
		},
	}))
	app.Use(CorsMiddleware(opts.CorsOrigin))
	app.Use(RequestLogger(opts.Log))
	app.Use(Preflight())
	return app
}

type Router struct {
	Handler      *handlers.Handler
	AdminHandler *admin.Handler
	AuthMW       fiber.Handler
	WriteMW      fiber.Handler
	AuditMW      fiber.Handler
	AdminMW      fiber.Handler
}

func health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	app.Get("/health", health)
	app.Get("/healthz", health)

	if r.Handler != nil && r.AuthMW != nil {
		h := r.Handler
		write := r.writeChain

		app.Get("/Accounts", r.AuthMW, h.ListAccounts)
		app.Post("/Accounts", write(h.CreateAccount)...)
		app.Put("/Accounts", write(h.UpdateAccount)...)
		app.Delete("/Accounts", write(h.DeleteAccount)...)

		app.Get("/Transactions", r.AuthMW, h.ListTransactions)
		app.Post("/Transactions", write(h.CreateTransaction)...)
		app.Delete("/Transactions", write(h.DeleteTransaction)...)

		app.Get("/IncomeStreams", r.AuthMW, h.ListIncomeStreams)
		app.Post("/IncomeStreams", write(h.CreateIncomeStream)...)
		app.Put("/IncomeStreams", write(h.UpdateIncomeStream)...)
		app.Delete("/IncomeStreams", write(h.DeleteIncomeStream)...)

		app.Get("/AIInsights", r.AuthMW, h.ListInsights)
	}

	if r.AdminHandler != nil && r.AdminMW != nil {
		app.Get("/admin/overview", r.AdminMW, r.AdminHandler.Overview)
	}
}

// writeChain is auth, then throttling, then auditing, then the handler.
func (r *Router) writeChain(h fiber.Handler) []fiber.Handler {
	chain := []fiber.Handler{r.AuthMW}
	if r.WriteMW != nil {
		chain = append(chain, r.WriteMW)
	}
	if r.AuditMW != nil {
		chain = append(chain, r.AuditMW)
	}
	return append(chain, h)
}
