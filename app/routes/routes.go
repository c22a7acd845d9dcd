package routes

import (
	"net/http"

	"postadmin/app/controllers"
	"postadmin/app/middleware"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Options configures the admin router.
type Options struct {
	AdminUsername     string
	AdminPasswordHash string
}

// SetupRoutes builds the router over the given badger database.
func SetupRoutes(db *badger.DB, opts Options) *mux.Router {
	return NewRouter(controllers.NewPostControllerWithDB(db), opts)
}

// NewRouter registers the admin edit form, its JSON mirror under /api,
// and a health check.
func NewRouter(postController *controllers.PostController, opts Options) *mux.Router {
	router := mux.NewRouter()
	// slugs are matched escaped, so "a%2Fb" stays one {slug} segment
	router.UseEncodedPath()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if opts.AdminUsername == "" || opts.AdminPasswordHash == "" {
		log.Warnln("admin credentials not configured, admin routes are unprotected")
	}
	adminAuth := middleware.BasicAuth(opts.AdminUsername, opts.AdminPasswordHash)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}).Methods("GET").Name("healthz")
	router.Handle("/", http.RedirectHandler("/posts/admin", http.StatusFound)).Methods("GET").Name("home")

	// Admin web endpoints
	admin := router.PathPrefix("/posts/admin").Subrouter()
	admin.Use(adminAuth)
	registerAdminRoutes(admin, postController, "")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)
	apiAdmin := api.PathPrefix("/posts/admin").Subrouter()
	apiAdmin.Use(adminAuth)
	registerAdminRoutes(apiAdmin, postController, "api-")

	return router
}

func registerAdminRoutes(router *mux.Router, pc *controllers.PostController, namePrefix string) {
	router.HandleFunc("", pc.Index).Methods("GET").Name(namePrefix + "admin-index")
	router.HandleFunc("/{slug}", pc.Edit).Methods("GET").Name(namePrefix + "edit-post")
	router.HandleFunc("/{slug}", pc.Update).Methods("POST", "PUT").Name(namePrefix + "update-post")
}
