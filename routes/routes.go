package routes

import (
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iismail06/Skincare-tracker-SKYN/config"
	"github.com/iismail06/Skincare-tracker-SKYN/controllers"
	auth "github.com/iismail06/Skincare-tracker-SKYN/middleware"

	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := strings.Split(config.GetEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173"), ",")
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authCtl := controllers.NewAuthController(db)
	profileCtl := controllers.NewProfileController(db)
	productsCtl := controllers.NewProductsController(db)
	routinesCtl := controllers.NewRoutinesController(db)
	dashboardCtl := controllers.NewDashboardController(db)

	// Public
	r.Post("/auth/register", authCtl.Register)
	r.Post("/auth/login", authCtl.Login)

	// Authenticated
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Get("/profile", profileCtl.Get)
		r.Put("/profile", profileCtl.Update)

		r.Get("/products", productsCtl.List)
		r.Post("/products", productsCtl.Create)
		r.Get("/products/{product_id}", productsCtl.Get)
		r.Put("/products/{product_id}", productsCtl.Update)
		r.Delete("/products/{product_id}", productsCtl.Delete)
		r.Post("/products/{product_id}/favorite", productsCtl.ToggleFavorite)

		r.Get("/routines", routinesCtl.List)
		r.Post("/routines", routinesCtl.Create)
		r.Get("/routines/{routine_id}", routinesCtl.Get)
		r.Get("/routines/{routine_id}/data", routinesCtl.GetData)
		r.Put("/routines/{routine_id}", routinesCtl.Update)
		r.Delete("/routines/{routine_id}", routinesCtl.Delete)
		r.Post("/routines/toggle-step", dashboardCtl.ToggleStep)
		r.Post("/routines/mark-complete", dashboardCtl.MarkComplete)

		r.Get("/dashboard", dashboardCtl.Dashboard)
		r.Get("/dashboard/calendar", dashboardCtl.Calendar)
	})

	return r
}
