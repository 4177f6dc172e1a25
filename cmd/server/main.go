package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v82"

	"parkconnect/internal/api"
	"parkconnect/internal/auth"
	"parkconnect/internal/booking"
	"parkconnect/internal/repository"
	"parkconnect/internal/service"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	reservationRepo := repository.NewReservationRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	userRepo := repository.NewUserRepository(db)

	pendingTimeout := booking.DefaultPendingTimeout
	if v := os.Getenv("PENDING_TIMEOUT_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pendingTimeout = time.Duration(n) * time.Minute
		}
	}
	coord := booking.NewCoordinator(reservationRepo, booking.RealClock{}, pendingTimeout)

	spaces, err := spaceRepo.ListSpaces()
	if err != nil {
		log.Fatalf("Failed to load spaces: %v", err)
	}
	for _, sp := range spaces {
		if err := coord.AddSpace(sp); err != nil {
			log.Fatalf("Failed to register space %s: %v", sp.ID, err)
		}
	}
	restored, err := coord.Restore(context.Background())
	if err != nil {
		log.Fatalf("Failed to restore availability from reservation log: %v", err)
	}
	log.Printf("Loaded %d spaces, restored %d active bookings", len(spaces), restored)

	stripeService := service.NewStripeService()
	bookingService := service.NewBookingService(coord, reservationRepo, userRepo, stripeService)
	spaceService := service.NewSpaceService(coord, spaceRepo)
	authService := service.NewAuthService(userRepo)
	jobService := service.NewJobService(coord)

	senderService := service.NewSenderService(coord, userRepo)
	coord.Subscribe(senderService.HandleTransition)

	bookingHandler := api.NewBookingHandler(bookingService)
	spaceHandler := api.NewSpaceHandler(spaceService)
	authHandler := api.NewAuthHandler(authService)
	stripeHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), bookingService)

	c := cron.New()
	c.AddFunc("@every 1m", jobService.ExpirePendingBookings)
	c.AddFunc("@every 5m", jobService.CompleteElapsedBookings)
	c.Start()

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/spaces", spaceHandler.ListSpaces).Methods("GET")
	r.HandleFunc("/api/availability", bookingHandler.CheckAvailability).Methods("POST")
	r.HandleFunc("/api/stripe/webhook", stripeHandler.HandleWebhook).Methods("POST")

	// Authenticated endpoints
	private := r.PathPrefix("/api").Subrouter()
	private.Use(auth.Middleware)
	private.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods("POST")
	private.HandleFunc("/bookings", bookingHandler.ListBookings).Methods("GET")
	private.HandleFunc("/bookings/{id}", bookingHandler.GetBooking).Methods("GET")
	private.HandleFunc("/bookings/{id}", bookingHandler.CancelBooking).Methods("DELETE")

	// Owner endpoints
	owner := r.PathPrefix("/api").Subrouter()
	owner.Use(auth.Middleware, auth.RequireRole(booking.RoleOwner))
	owner.HandleFunc("/spaces", spaceHandler.CreateSpace).Methods("POST")
	owner.HandleFunc("/spaces/{id}", spaceHandler.UpdateSpace).Methods("PUT")
	owner.HandleFunc("/owner/bookings", bookingHandler.ListOwnerBookings).Methods("GET")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, cors(handlers.LoggingHandler(os.Stdout, r))))
}
