package api

import (
	"net/http"
	"time"

	"gajanji-server/src/auth"
	"gajanji-server/src/chat"
	"gajanji-server/src/handlers"
	"gajanji-server/src/logger"
	"gajanji-server/src/mail"
	"gajanji-server/src/middleware"
	"gajanji-server/src/models"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Store    handlers.Store
	Cache    handlers.ViewCache
	Tokens   *auth.Tokens
	Google   auth.GoogleVerifier
	Mailer   mail.Sender
	Budgets  handlers.BudgetEvaluator
	Chat     *chat.Proxy
	Logger   *logger.Logger
	Location *time.Location

	PublicBaseURL string
	CORSOrigins   []string
	ReadOnly      bool
}

func NewRouter(d Deps) *chi.Mux {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logger.Middleware(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(d.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.ReadOnlyMiddleware(d.ReadOnly))

			r.Post("/auth/register", handlers.Register(d.Store, d.Tokens, d.Mailer, d.PublicBaseURL))
			r.Get("/auth/verify/{token}", handlers.VerifyEmail(d.Store, d.Tokens))
			r.Post("/auth/login", handlers.Login(d.Store, d.Tokens))
			r.Post("/auth/google-login", handlers.GoogleLogin(d.Store, d.Tokens, d.Google))
			r.Post("/auth/logout", handlers.Logout())

			r.Get("/help", handlers.GetFAQs())
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(d.Tokens))
			r.Use(middleware.ReadOnlyMiddleware(d.ReadOnly))

			// Transactions
			r.Post("/transactions", handlers.CreateTransaction(d.Store, d.Cache, loc))
			r.Get("/transactions", handlers.GetTransactions(d.Store, loc))
			r.Get("/transactions/summary", handlers.GetSummary(d.Store, loc))
			r.Get("/transactions/suggestion", handlers.GetSuggestion(d.Store, loc))
			r.Get("/transactions/{id}", handlers.GetTransaction(d.Store))
			r.Put("/transactions/{id}", handlers.UpdateTransaction(d.Store, d.Cache, loc))
			r.Delete("/transactions/{id}", handlers.DeleteTransaction(d.Store, d.Cache))

			// Categories
			r.Get("/categories", handlers.GetCategories(d.Store, d.Cache, loc))
			r.Put("/categories/{id}", handlers.UpdateTransaction(d.Store, d.Cache, loc))
			r.Delete("/categories/{id}", handlers.DeleteTransaction(d.Store, d.Cache))

			// Budgets
			r.Post("/budgets", handlers.CreateBudget(d.Store, loc))
			r.Get("/budgets", handlers.GetBudgets(d.Store, d.Budgets))
			r.Get("/budgets/category/{category}", handlers.GetBudgetsByCategory(d.Store, d.Budgets))
			r.Get("/budgets/{id}", handlers.GetBudget(d.Store, d.Budgets))
			r.Put("/budgets/{id}", handlers.UpdateBudget(d.Store, loc))
			r.Delete("/budgets/{id}", handlers.DeleteBudget(d.Store))

			// Chatbot
			r.Post("/chatbot", handlers.PostChatMessage(d.Chat))
			r.Get("/chatbot/messages", handlers.GetChatMessages(d.Chat))

			// Profile
			r.Get("/profile", handlers.GetProfile(d.Store))
			r.Put("/profile", handlers.UpdateProfile(d.Store))
			r.Post("/profile/change-password", handlers.ChangePassword(d.Store))

			// Reports
			r.Get("/reports", handlers.GetReport(d.Store, loc))
			r.Get("/reports/download/pdf", handlers.DownloadPDF(d.Store, d.Store, loc))
			r.Get("/reports/download/csv", handlers.DownloadCSV(d.Store, loc))

			// Admin
			r.With(middleware.RequireRole(models.RoleAdmin)).Post("/admin/cache/clear", handlers.ClearCache(d.Cache))
		})
	})

	return r
}
