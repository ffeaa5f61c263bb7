package server

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"

	"contact-book/auth"
	cachepackage "contact-book/cache"
	"contact-book/config"
	"contact-book/database"
	"contact-book/handlers"
	"contact-book/session"
	"contact-book/store"
)

// newCheckAuth builds the bearer authentication callback for protected
// routes. A missing header means unauthenticated; a presented token must
// verify as a member JWT.
func newCheckAuth(issuer *auth.TokenIssuer) func(r *http.Request) (bool, httpserver.RequestAuth) {
	return func(r *http.Request) (bool, httpserver.RequestAuth) {
		authorization := r.Header.Get("Authorization")
		if !strings.HasPrefix(authorization, "Bearer ") {
			return false, httpserver.RequestAuth{}
		}

		claims, err := issuer.Verify(strings.TrimPrefix(authorization, "Bearer "))
		if err != nil {
			return false, httpserver.RequestAuth{}
		}

		return true, httpserver.RequestAuth{
			Type:   "bearer",
			Client: claims.Email,
			Claims: map[string]interface{}{
				"member_id": claims.MemberID,
				"nickname":  claims.Nickname,
			},
		}
	}
}

// newFileSessionStore builds the default file-backed session store.
func newFileSessionStore(cfg config.Config) session.Store {
	fileStore, err := session.NewFileStore(cfg.SessionDir, cfg.SessionTTL)
	if err != nil {
		logger.Error("Failed to initialize session store", zap.Error(err))
		os.Exit(1)
	}
	return fileStore
}

// StartServer wires configuration, storage, session state and handlers,
// registers the routes and serves until failure.
func StartServer() {
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	logger.Info("Starting contact-book service...")

	cfg := config.Load()

	dbConn := database.InitializeDatabase(cfg)
	defer dbConn.Close()

	contactStore := store.NewContactStore(dbConn)
	memberStore := store.NewMemberStore(dbConn)
	userStore := store.NewUserStore(dbConn)
	favoriteStore := store.NewFavoriteStore(dbConn)

	// Session backend from config: file-backed by default, the shared
	// cache when SESSION_STORE=cache.
	var sessionStore session.Store
	if cfg.SessionStore == "cache" {
		sessionCache := cachepackage.InitializeCache(cfg)
		defer sessionCache.Close()
		sessionStore = session.NewCacheStore(sessionCache, cfg.SessionTTL)
	} else {
		sessionStore = newFileSessionStore(cfg)
	}

	tokenIssuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)

	contactHandler := handlers.NewContactHandler(contactStore)
	sessionAuthHandler := handlers.NewSessionAuthHandler(memberStore, sessionStore, cfg.SessionTTL)
	jwtAuthHandler := handlers.NewJWTAuthHandler(memberStore, tokenIssuer)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteStore, sessionStore)
	userHandler := handlers.NewUserHandler(userStore)
	tryABHandler := handlers.NewTryABHandler(contactStore, memberStore)

	server := httpserver.New(cfg.AppPort, newCheckAuth(tokenIssuer))

	server.Register(httpserver.Route{
		Name:     "HealthCheck",
		Method:   "GET",
		Path:     "/health",
		AuthType: "none",
	}, httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "contact-book"}`))
	}))

	// Contacts API
	server.Register(httpserver.Route{
		Name:     "ListContacts",
		Method:   "GET",
		Path:     "/api/contacts",
		AuthType: "none",
	}, httpserver.HandlerFunc(contactHandler.List))

	server.Register(httpserver.Route{
		Name:     "CursorContacts",
		Method:   "GET",
		Path:     "/api/contacts/try-cursor",
		AuthType: "none",
	}, httpserver.HandlerFunc(contactHandler.TryCursor))

	server.Register(httpserver.Route{
		Name:     "GetContact",
		Method:   "GET",
		Path:     "/api/contacts/{ab_id}",
		AuthType: "none",
	}, httpserver.HandlerFunc(contactHandler.Get))

	server.Register(httpserver.Route{
		Name:     "CreateContact",
		Method:   "POST",
		Path:     "/api/contacts",
		AuthType: "none",
	}, httpserver.HandlerFunc(contactHandler.Create))

	server.Register(httpserver.Route{
		Name:     "UpdateContact",
		Method:   "PUT",
		Path:     "/api/contacts/{ab_id}",
		AuthType: "none",
	}, httpserver.HandlerFunc(contactHandler.Update))

	server.Register(httpserver.Route{
		Name:     "DeleteContact",
		Method:   "DELETE",
		Path:     "/api/contacts/{ab_id}",
		AuthType: "none",
	}, httpserver.HandlerFunc(contactHandler.Delete))

	// Session auth
	server.Register(httpserver.Route{
		Name:     "Login",
		Method:   "POST",
		Path:     "/api/login",
		AuthType: "none",
	}, httpserver.HandlerFunc(sessionAuthHandler.Login))

	server.Register(httpserver.Route{
		Name:     "LoggedIn",
		Method:   "GET",
		Path:     "/api/logged-in",
		AuthType: "none",
	}, httpserver.HandlerFunc(sessionAuthHandler.LoggedIn))

	server.Register(httpserver.Route{
		Name:     "Logout",
		Method:   "GET",
		Path:     "/api/logout",
		AuthType: "none",
	}, httpserver.HandlerFunc(sessionAuthHandler.Logout))

	server.Register(httpserver.Route{
		Name:     "Signup",
		Method:   "POST",
		Path:     "/api/signup",
		AuthType: "none",
	}, httpserver.HandlerFunc(sessionAuthHandler.Signup))

	// JWT auth
	server.Register(httpserver.Route{
		Name:     "JWTLogin",
		Method:   "POST",
		Path:     "/api/jwt-login",
		AuthType: "none",
	}, httpserver.HandlerFunc(jwtAuthHandler.Login))

	server.Register(httpserver.Route{
		Name:     "JWTLoggedIn",
		Method:   "GET",
		Path:     "/api/jwt-logged-in",
		AuthType: "none",
	}, httpserver.HandlerFunc(jwtAuthHandler.LoggedIn))

	// Favorites (session-bound)
	server.Register(httpserver.Route{
		Name:     "ListFavorites",
		Method:   "GET",
		Path:     "/api/favorites",
		AuthType: "none",
	}, httpserver.HandlerFunc(favoriteHandler.List))

	server.Register(httpserver.Route{
		Name:     "AddFavorite",
		Method:   "POST",
		Path:     "/api/favorites/{ab_id}",
		AuthType: "none",
	}, httpserver.HandlerFunc(favoriteHandler.Add))

	server.Register(httpserver.Route{
		Name:     "RemoveFavorite",
		Method:   "DELETE",
		Path:     "/api/favorites/{ab_id}",
		AuthType: "none",
	}, httpserver.HandlerFunc(favoriteHandler.Remove))

	// Demo users (bearer JWT)
	server.Register(httpserver.Route{
		Name:     "ListUsers",
		Method:   "GET",
		Path:     "/users",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(userHandler.GetUsers))

	server.Register(httpserver.Route{
		Name:     "GetUser",
		Method:   "GET",
		Path:     "/users/{id}",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(userHandler.GetUser))

	server.Register(httpserver.Route{
		Name:     "CreateUser",
		Method:   "POST",
		Path:     "/users",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(userHandler.CreateUser))

	server.Register(httpserver.Route{
		Name:     "UpdateUser",
		Method:   "PUT",
		Path:     "/users/{id}",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(userHandler.UpdateUser))

	server.Register(httpserver.Route{
		Name:     "DeleteUser",
		Method:   "DELETE",
		Path:     "/users/{id}",
		AuthType: "bearer",
	}, httpserver.HandlerFunc(userHandler.DeleteUser))

	// Query playground
	server.Register(httpserver.Route{
		Name:     "TryABSearch",
		Method:   "GET",
		Path:     "/try-ab/search",
		AuthType: "none",
	}, httpserver.HandlerFunc(tryABHandler.Search))

	server.Register(httpserver.Route{
		Name:     "TryABOrderBy",
		Method:   "GET",
		Path:     "/try-ab/order-by",
		AuthType: "none",
	}, httpserver.HandlerFunc(tryABHandler.OrderBy))

	server.Register(httpserver.Route{
		Name:     "TryABTakeSkip",
		Method:   "GET",
		Path:     "/try-ab/take-skip/{page}",
		AuthType: "none",
	}, httpserver.HandlerFunc(tryABHandler.TakeSkip))

	server.Register(httpserver.Route{
		Name:     "TryABCount",
		Method:   "GET",
		Path:     "/try-ab/count",
		AuthType: "none",
	}, httpserver.HandlerFunc(tryABHandler.Count))

	server.Register(httpserver.Route{
		Name:     "TryABMembersWithFavorites",
		Method:   "GET",
		Path:     "/try-ab/members-with-favorites",
		AuthType: "none",
	}, httpserver.HandlerFunc(tryABHandler.MembersWithFavorites))

	server.Register(httpserver.Route{
		Name:     "TryABMembersWithoutFavorites",
		Method:   "GET",
		Path:     "/try-ab/members-without-favorites",
		AuthType: "none",
	}, httpserver.HandlerFunc(tryABHandler.MembersWithoutFavorites))

	logger.Info("Contact-book service started on port " + cfg.AppPort)

	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}
