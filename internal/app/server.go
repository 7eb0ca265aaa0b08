package app

import (
	"log"
	"net/http"
	"time"

	"quickchat/internal/handler"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	router *mux.Router
}

func NewServer(userHandler *handler.UserHandler, chatHandler *handler.ChatHandler) *Server {
	router := mux.NewRouter()

	// Публичные маршруты
	router.HandleFunc("/ping", handler.Ping).Methods("GET", "OPTIONS")
	userHandler.RegisterPublicRoutes(router)

	swaggerHandler := httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	)
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
	router.HandleFunc("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// Всё остальное — только с токеном
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(handler.AuthMiddleware)
	userHandler.RegisterRoutes(protected)
	chatHandler.RegisterRoutes(protected)

	return &Server{router: router}
}

func (s *Server) Run(port string) {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
	)

	srv := &http.Server{
		Handler:      cors(s.router),
		Addr:         ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(srv.ListenAndServe())
}
