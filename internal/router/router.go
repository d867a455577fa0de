package router

import (
	"database/sql"
	"net/http"

	mem "rescue-office/internal/adapters/storage/memory"
	pg "rescue-office/internal/adapters/storage/postgres"
	"rescue-office/internal/domain/animals"
	"rescue-office/internal/domain/catalog"
	"rescue-office/internal/domain/exhibitors"
	"rescue-office/internal/domain/fosterfamilies"
	"rescue-office/internal/domain/invoices"
	"rescue-office/internal/middleware"
	"rescue-office/internal/platform/logger"
	"rescue-office/internal/ports/auth"
	"rescue-office/internal/ports/images"
	"rescue-office/internal/ports/notify"
	"rescue-office/internal/ports/search"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.Verifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger

	// Efectos post-commit; cualquiera puede ser nil y el delegate
	// simplemente no lo dispara.
	Index    search.Index
	Images   images.Storage
	Notifier notify.Notifier
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.SessionContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	var (
		animalsRepo    animals.Repository
		familiesRepo   fosterfamilies.Repository
		exhibitorsRepo exhibitors.Repository
		invoicesRepo   invoices.Repository
		catalogRepo    catalog.Repository
	)

	if opts.DB != nil {
		animalsRepo = pg.NewAnimalsRepo(opts.DB)
		familiesRepo = pg.NewFosterFamiliesRepo(opts.DB)
		exhibitorsRepo = pg.NewExhibitorsRepo(opts.DB)
		invoicesRepo = pg.NewInvoicesRepo(opts.DB)
		catalogRepo = pg.NewCatalogRepo(opts.DB)
	} else {
		log.Warn("sin DB, usando repos in-memory (los datos no sobreviven un restart)", nil)
		memExhibitors := mem.NewExhibitorsRepo()
		animalsRepo = mem.NewAnimalsRepo()
		familiesRepo = mem.NewFosterFamiliesRepo()
		exhibitorsRepo = memExhibitors
		invoicesRepo = mem.NewInvoicesRepo()
		// el catálogo in-memory agrega el uso desde los stands promovidos
		catalogRepo = mem.NewCatalogRepo(memExhibitors)
	}

	// Services por módulo
	animalsSvc := animals.NewService(animalsRepo, opts.Index, opts.Images, log)
	familiesSvc := fosterfamilies.NewService(familiesRepo, opts.Index, log)
	exhibitorsSvc := exhibitors.NewService(exhibitorsRepo, opts.Notifier, log)
	invoicesSvc := invoices.NewService(invoicesRepo, opts.Notifier, log)
	catalogSvc := catalog.NewService(catalogRepo)

	// Rutas por módulo
	animals.RegisterRoutes(r, animalsSvc)
	fosterfamilies.RegisterRoutes(r, familiesSvc)
	exhibitors.RegisterRoutes(r, exhibitorsSvc)
	invoices.RegisterRoutes(r, invoicesSvc)
	catalog.RegisterRoutes(r, catalogSvc)

	return r
}
