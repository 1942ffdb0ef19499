package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	rh "github.com/pageturn/biblio/route-handlers"
	"github.com/pageturn/biblio/webutil"
)

const (
	apiBasePath        = "/api"
	booksBasePath      = "/books"
	chaptersBasePath   = "/chapters"
	commentsBasePath   = "/comments"
	ordersBasePath     = "/orders"
	usersBasePath      = "/users"
	categoriesBasePath = "/categories"
	authorsBasePath    = "/authors"
)

const (
	readSubPath         = "/read"
	downloadSubPath     = "/download"
	fileSubPath         = "/file"
	chaptersSubPath     = "/chapters"
	commentsSubPath     = "/comments"
	librarySubPath      = "/library"
	entitlementsSubPath = "/entitlements"
)

const (
	paramID = "id" // General parameter name for resource IDs
)

func SetupRoutes(
	bookHandler *rh.BookHandler,
	readHandler *rh.ReadHandler,
	chapterHandler *rh.ChapterHandler,
	commentHandler *rh.CommentHandler,
	orderHandler *rh.OrderHandler,
	userHandler *rh.UserHandler,
	categoryHandler *rh.CategoryHandler,
	authorHandler *rh.AuthorHandler,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                    // Log every request
	r.Use(middleware.Recoverer)                 // Recover from panics
	r.Use(middleware.Timeout(60 * time.Second)) // Set a timeout context for requests
	r.Use(webutil.Identity)                     // Gateway identity headers -> context

	r.Route(apiBasePath, func(r chi.Router) {
		configureBookRoutes(r, bookHandler, readHandler, chapterHandler, commentHandler)
		configureChapterRoutes(r, chapterHandler, readHandler)
		configureCommentRoutes(r, commentHandler)
		configureOrderRoutes(r, orderHandler)
		configureUserRoutes(r, userHandler)
		configureCategoryRoutes(r, categoryHandler)
		configureAuthorRoutes(r, authorHandler)
	})

	// Health check endpoint
	r.Get("/healthz", handleHealthCheck)

	return r
}

// Helper for constructing paths with a parameter
func pathWithParam(basePath string, paramName string) string {
	if basePath == "" {
		return "/{" + paramName + "}"
	}
	return basePath + "/{" + paramName + "}"
}

// --- Book Routes ---
func configureBookRoutes(
	r chi.Router,
	bookHandler *rh.BookHandler,
	readHandler *rh.ReadHandler,
	chapterHandler *rh.ChapterHandler,
	commentHandler *rh.CommentHandler,
) {
	bookSpecificPath := pathWithParam("", paramID) // e.g., "/{id}"

	r.Route(booksBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(bookHandler.HandleGetBooks))
		r.Post("/", webutil.MakeHandler(bookHandler.HandleCreateBook))
		r.Route(bookSpecificPath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(bookHandler.HandleGetBook))
			r.Put("/", webutil.MakeHandler(bookHandler.HandleUpdateBook))
			r.Delete("/", webutil.MakeHandler(bookHandler.HandleDeleteBook))
			r.Put(fileSubPath, webutil.MakeHandler(bookHandler.HandleUpdateBookFile)) // PUT /books/{id}/file

			// Reading surface for a specific book
			r.Get(readSubPath, webutil.MakeHandler(readHandler.HandleGetReadContent)) // GET /books/{id}/read
			r.Get(downloadSubPath, webutil.MakeHandler(readHandler.HandleDownload))   // GET /books/{id}/download

			// Nested chapter and comment collections
			r.Get(chaptersSubPath, webutil.MakeHandler(chapterHandler.HandleGetChapters))    // GET /books/{id}/chapters
			r.Post(chaptersSubPath, webutil.MakeHandler(chapterHandler.HandleCreateChapter)) // POST /books/{id}/chapters
			r.Get(commentsSubPath, webutil.MakeHandler(commentHandler.HandleGetComments))    // GET /books/{id}/comments
			r.Post(commentsSubPath, webutil.MakeHandler(commentHandler.HandleCreateComment)) // POST /books/{id}/comments
		})
	})
}

// --- Chapter Routes ---
func configureChapterRoutes(r chi.Router, chapterHandler *rh.ChapterHandler, readHandler *rh.ReadHandler) {
	chapterSpecificPath := pathWithParam("", paramID) // e.g., "/{id}"

	r.Route(chaptersBasePath, func(r chi.Router) {
		r.Route(chapterSpecificPath, func(r chi.Router) {
			r.Get(readSubPath, webutil.MakeHandler(readHandler.HandleReadChapter)) // GET /chapters/{id}/read
			r.Put("/", webutil.MakeHandler(chapterHandler.HandleUpdateChapter))
			r.Delete("/", webutil.MakeHandler(chapterHandler.HandleDeleteChapter))
		})
	})
}

// --- Comment Routes ---
func configureCommentRoutes(r chi.Router, handler *rh.CommentHandler) {
	r.Delete(pathWithParam(commentsBasePath, paramID), webutil.MakeHandler(handler.HandleDeleteComment))
}

// --- Order Routes ---
func configureOrderRoutes(r chi.Router, handler *rh.OrderHandler) {
	r.Route(ordersBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleGetOrders))
		r.Post("/", webutil.MakeHandler(handler.HandleCreateOrder))
	})
}

// --- User Routes ---
func configureUserRoutes(r chi.Router, handler *rh.UserHandler) {
	userSpecificPath := pathWithParam("", paramID) // e.g., "/{id}"

	r.Route(usersBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleGetUsers))
		r.Post("/", webutil.MakeHandler(handler.HandleCreateUser))
		r.Route(userSpecificPath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(handler.HandleGetUser))
			r.Get(librarySubPath, webutil.MakeHandler(handler.HandleGetLibrary))             // GET /users/{id}/library
			r.Post(entitlementsSubPath, webutil.MakeHandler(handler.HandleGrantEntitlement)) // POST /users/{id}/entitlements
		})
	})
}

// --- Category Routes ---
func configureCategoryRoutes(r chi.Router, handler *rh.CategoryHandler) {
	r.Route(categoriesBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleGetCategories))
		r.Post("/", webutil.MakeHandler(handler.HandleCreateCategory))
	})
}

// --- Author Routes ---
func configureAuthorRoutes(r chi.Router, handler *rh.AuthorHandler) {
	authorSpecificPath := pathWithParam("", paramID) // e.g., "/{id}"

	r.Route(authorsBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleGetAuthors))
		r.Post("/", webutil.MakeHandler(handler.HandleCreateAuthor))
		r.Route(authorSpecificPath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(handler.HandleGetAuthor))
			r.Put("/", webutil.MakeHandler(handler.HandleUpdateAuthor))
			r.Delete("/", webutil.MakeHandler(handler.HandleDeleteAuthor))
		})
	})
}

// --- Utility Functions ---

// handleHealthCheck responds to a health check request.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
