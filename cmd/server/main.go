package main

import (
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"wasteflow-backend/internal/database"
	"wasteflow-backend/internal/handlers"
	"wasteflow-backend/internal/middleware"
	"wasteflow-backend/internal/models"
	"wasteflow-backend/internal/services"
	"wasteflow-backend/internal/store"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("🚀 WASTEFLOW BACKEND SERVER STARTING")

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}
	log.Println("✅ Database migrations completed")

	if err := database.SeedUsers(db); err != nil {
		log.Fatal(err)
	}
	if err := database.SeedPackages(db); err != nil {
		log.Fatal(err)
	}
	if err := database.SeedBins(db); err != nil {
		log.Fatal(err)
	}

	// Mail is optional; without a key notifications are silently dropped.
	var mailer services.Mailer = services.NopMailer{}
	if apiKey := os.Getenv("SENDGRID_API_KEY"); apiKey != "" {
		from := os.Getenv("MAIL_FROM")
		if from == "" {
			from = "noreply@wasteflow.app"
		}
		mailer = services.NewSendGridMailer(apiKey, from)
		log.Println("✅ SendGrid mailer initialized")
	} else {
		log.Println("⚠️  SENDGRID_API_KEY not set, notifications disabled")
	}
	notifier := services.NewNotifier(mailer)

	releaseEnabled := os.Getenv("FEATURE_BIN_RELEASE") == "true"
	if releaseEnabled {
		log.Println("✅ Bin release on package change enabled")
	}

	st := store.New(db)
	pickups := services.NewPickupService(st)
	allocator := services.NewAllocator(st, releaseEnabled)

	// Deterministic assignment by default; SCHEDULER_STRATEGY=shuffle restores
	// the randomized roster scan.
	var strategy services.AssignmentStrategy = services.LeastLoadedStrategy{}
	if os.Getenv("SCHEDULER_STRATEGY") == "shuffle" {
		strategy = services.ShuffleStrategy{Rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
	}
	scheduler := services.NewScheduler(st, strategy)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Post("/api/auth/login", handlers.Login(st))
	r.Post("/api/homeowners", handlers.RegisterHomeowner(st))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth)

		r.Get("/auth/status", handlers.GetAuthStatus(st))

		// Catalog and pool queries
		r.Get("/bins", handlers.GetBins(st))
		r.Get("/bins/assigned", handlers.GetAssignedBins(st))
		r.Get("/bins/unassigned", handlers.GetUnassignedBins(st))
		r.Get("/bins/homeowner/{homeowner}", handlers.GetBinsByHomeowner(st))
		r.Get("/bins/{id}", handlers.GetBin(st))
		r.Get("/packages", handlers.GetPackages(st))
		r.Get("/packages/{id}", handlers.GetPackage(st))

		// Pickup queries
		r.Get("/pickups/date/{date}", handlers.GetPickupsByDate(st))
		r.Get("/pickups/overdue", handlers.GetOverduePickups(st))

		// Homeowner endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleHomeowner))

			r.Get("/homeowner/bins", handlers.GetMyBins(st))
			r.Patch("/homeowner/bins/fill", handlers.FillBins(st))
			r.Patch("/homeowner/bins/empty", handlers.EmptyBins(st))
			r.Post("/homeowner/package/{id}", handlers.ChoosePackage(st, allocator, notifier))

			r.Post("/pickups", handlers.CreatePickup(st, pickups, notifier))
			r.Patch("/pickups/reschedule/{id}", handlers.ReschedulePickup(pickups))
			r.Patch("/pickups/cancel/{id}", handlers.CancelPickup(st, pickups, notifier))
			r.Get("/pickups/mine", handlers.GetMyPickups(st, pickups))

			r.Post("/payments/package/{id}", handlers.PayForPackage(st, allocator, notifier))
			r.Post("/payments/pickup/{id}", handlers.PayForPickup(st, pickups, notifier))
			r.Get("/payments/mine", handlers.GetMyPayments(st))
		})

		// Driver endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleDriver))

			r.Patch("/pickups/ongoing/{id}", handlers.StartPickup(pickups))
			r.Patch("/pickups/complete/{id}", handlers.CompletePickup(pickups))
		})

		// Manager endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleManager))

			r.Post("/bins", handlers.CreateBin(st))
			r.Post("/bins/multiple", handlers.CreateBins(st))
			r.Delete("/bins/{id}", handlers.DeleteBin(st))

			r.Post("/packages", handlers.CreatePackage(st))
			r.Post("/packages/custom", handlers.CreateCustomPackage(st))
			r.Patch("/packages/{id}", handlers.UpdatePackage(st))
			r.Delete("/packages/{id}", handlers.DeletePackage(st))

			r.Get("/pickups", handlers.GetPickups(st))
			r.Patch("/pickups/assign/auto", handlers.AssignPickupsAuto(scheduler))

			r.Post("/pickup-settings", handlers.CreatePickupSettings(st))
			r.Get("/pickup-settings", handlers.GetPickupSettings(st))
			r.Patch("/pickup-settings", handlers.UpdatePickupSettings(st))

			r.Get("/homeowners", handlers.GetHomeowners(st))
			r.Get("/homeowners/{id}", handlers.GetHomeowner(st))
			r.Delete("/homeowners/{id}", handlers.DeleteUser(st))
			r.Patch("/homeowners/suspend/{id}", handlers.SuspendUser(st, notifier))
			r.Patch("/homeowners/unsuspend/{id}", handlers.UnsuspendUser(st, notifier))
			r.Patch("/homeowners/approve/{id}", handlers.ApproveHomeowner(st, notifier))
			r.Patch("/homeowners/reject/{id}", handlers.RejectHomeowner(st, notifier))

			r.Post("/drivers", handlers.CreateDriver(st, notifier))
			r.Get("/drivers", handlers.GetDrivers(st))
			r.Get("/drivers/{id}", handlers.GetDriver(st))
			r.Delete("/drivers/{id}", handlers.DeleteUser(st))
			r.Patch("/drivers/suspend/{id}", handlers.SuspendUser(st, notifier))
			r.Patch("/drivers/unsuspend/{id}", handlers.UnsuspendUser(st, notifier))
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on http://localhost:%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
