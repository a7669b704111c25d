package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ubqurrotul/koperasi-backend/api/controllers"
	"github.com/ubqurrotul/koperasi-backend/api/middleware"
	assistantsvc "github.com/ubqurrotul/koperasi-backend/internal/assistant"
	backupsvc "github.com/ubqurrotul/koperasi-backend/internal/backup"
	journalsvc "github.com/ubqurrotul/koperasi-backend/internal/journal"
	ledgersvc "github.com/ubqurrotul/koperasi-backend/internal/ledger"
	membersvc "github.com/ubqurrotul/koperasi-backend/internal/members"
	newssvc "github.com/ubqurrotul/koperasi-backend/internal/news"
	productsvc "github.com/ubqurrotul/koperasi-backend/internal/products"
	shusvc "github.com/ubqurrotul/koperasi-backend/internal/shu"
	txnsvc "github.com/ubqurrotul/koperasi-backend/internal/transactions"
	"github.com/ubqurrotul/koperasi-backend/pkg/config"
	"github.com/ubqurrotul/koperasi-backend/pkg/logger"
	"github.com/ubqurrotul/koperasi-backend/pkg/metrics"
	"github.com/ubqurrotul/koperasi-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the domain layer handed to the router.
type Services struct {
	Members      membersvc.Service
	Transactions txnsvc.Service
	Products     productsvc.Service
	SHU          shusvc.Service
	Ledger       ledgersvc.Service
	Journal      journalsvc.Service
	News         newssvc.Service
	Backup       backupsvc.Service
	Assistant    assistantsvc.Service
}

// Deps carries infrastructure handles probed by readiness and used by the
// middleware stack. Nil entries are tolerated.
type Deps struct {
	DB          pinger
	Redis       *redis.Client
	PubSub      pinger
	HTTPMetrics *metrics.HTTPMetrics
	MetricsHTTP http.Handler
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svcs Services, deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg, deps.HTTPMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	var rateStore middleware.RateLimiterStore
	var idemStore redis.IdempotencyStore
	if deps.Redis != nil {
		rateStore = deps.Redis
		idemStore = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    redisPinger(deps.Redis),
			"pubsub":   deps.PubSub,
		}))
	})

	if deps.MetricsHTTP != nil {
		r.Handle("/metrics", deps.MetricsHTTP)
	} else {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, rateStore, logg)).
			Post("/register", controllers.AuthRegister(svcs.Members, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, rateStore, logg)).
			Post("/login", controllers.AuthLogin(svcs.Members, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		// member surface
		r.Route("/members/me", func(r chi.Router) {
			r.Get("/", controllers.MemberMe(svcs.Members, logg))
			r.Patch("/", controllers.MemberUpdateProfile(svcs.Members, logg))
			r.Post("/password", controllers.MemberChangePassword(svcs.Members, logg))
			r.Get("/savings", controllers.MySavingsSummary(svcs.Ledger, logg))
			r.Get("/savings/mandatory", controllers.MyMandatoryStatus(svcs.Ledger, logg))
			r.Get("/shu", controllers.MemberSHUShare(svcs.SHU, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", controllers.TransactionSubmit(svcs.Transactions, logg))
			r.Get("/", controllers.TransactionList(svcs.Transactions, logg))
			r.Get("/{transactionId}", controllers.TransactionDetail(svcs.Transactions, logg))
			r.With(middleware.RequireAdmin(logg)).
				Post("/{transactionId}/approve", controllers.TransactionApprove(svcs.Transactions, logg))
			r.With(middleware.RequireAdmin(logg)).
				Post("/{transactionId}/reject", controllers.TransactionReject(svcs.Transactions, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Products, logg))
			r.Get("/{productId}", controllers.ProductDetail(svcs.Products, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(logg))
				r.Post("/", controllers.ProductCreate(svcs.Products, logg))
				r.Patch("/{productId}", controllers.ProductUpdate(svcs.Products, logg))
				r.Delete("/{productId}", controllers.ProductDelete(svcs.Products, logg))
				r.Post("/{productId}/stock", controllers.ProductAdjustStock(svcs.Products, logg))
			})
		})

		r.Get("/news", controllers.NewsList(svcs.News, logg))
		r.Post("/assistant/chat", controllers.AssistantChat(svcs.Assistant, logg))

		// back office
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))

			r.Post("/pos/sales", controllers.POSRecordSale(svcs.Transactions, logg))

			r.Route("/members", func(r chi.Router) {
				r.Get("/", controllers.AdminListMembers(svcs.Members, logg))
				r.Get("/{memberId}", controllers.AdminMemberDetail(svcs.Members, logg))
				r.Put("/{memberId}/status", controllers.AdminSetMemberStatus(svcs.Members, logg))
				r.Get("/{memberId}/savings", controllers.AdminMemberSavingsSummary(svcs.Ledger, logg))
			})

			r.Route("/shu", func(r chi.Router) {
				r.Get("/config", controllers.SHUConfigGet(svcs.SHU, logg))
				r.Put("/config", controllers.SHUConfigSave(svcs.SHU, logg))
				r.Get("/breakdown", controllers.SHUBreakdown(svcs.SHU, logg))
			})

			r.Get("/ledger/summary", controllers.CooperativeFinancialSummary(svcs.Ledger, logg))

			r.Route("/journal", func(r chi.Router) {
				r.Post("/", controllers.JournalCreate(svcs.Journal, logg))
				r.Get("/", controllers.JournalList(svcs.Journal, logg))
			})

			r.Post("/news", controllers.NewsPublish(svcs.News, logg))
			r.Delete("/news/{newsId}", controllers.NewsDelete(svcs.News, logg))

			r.Route("/backup", func(r chi.Router) {
				r.Get("/export", controllers.BackupExport(svcs.Backup, logg))
				r.Post("/import", controllers.BackupImport(svcs.Backup, logg))
			})
		})
	})

	return r
}

// redisPinger narrows the concrete client so a nil *redis.Client does not
// leak into the interface as a non-nil pinger.
func redisPinger(client *redis.Client) pinger {
	if client == nil {
		return nil
	}
	return client
}
