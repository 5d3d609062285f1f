package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/handlers"
	"github.com/portfolio/backend/internal/server"
	"github.com/portfolio/backend/internal/services"
	"github.com/portfolio/backend/internal/storage"
	"github.com/portfolio/backend/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var gcpOpts []option.ClientOption
	if cfg.FirebaseCredentialsJSON != "" {
		gcpOpts = append(gcpOpts, option.WithCredentialsJSON([]byte(cfg.FirebaseCredentialsJSON)))
	}

	var app *firebase.App
	if cfg.FirebaseProjectID != "" {
		app, err = firebase.NewApp(ctx, &firebase.Config{
			ProjectID:     cfg.FirebaseProjectID,
			StorageBucket: cfg.FirebaseStorageBucket,
		}, gcpOpts...)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
	}

	store, err := openStore(ctx, cfg, app)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreBackend, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Printf("Store close: %v", err)
		}
	}()

	auth, err := newAuthenticator(ctx, cfg, app)
	if err != nil {
		log.Fatalf("Failed to initialize %s auth: %v", cfg.AuthProvider, err)
	}

	profiles := services.NewProfileService(store)
	skills := services.NewSkillService(store)
	projects := services.NewProjectService(store)
	experience := services.NewExperienceService(store)
	certificates := services.NewCertificateService(store)
	resumes := services.NewResumeService(store)
	portfolio := services.NewPortfolioService(profiles, skills, projects, experience, certificates, resumes)

	cloudinary := services.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset, cfg.CloudinaryFolder, cfg.MaxUploadBytes())
	if !cloudinary.Configured() {
		log.Printf("Warning: Cloudinary is not configured, image uploads will be rejected")
	}

	var objects handlers.ObjectUploader
	if cfg.FirebaseStorageBucket != "" {
		var moderator services.ImageModerator
		if cfg.ModerateUploads {
			detector, err := services.NewSafeSearchDetector(ctx, gcpOpts...)
			if err != nil {
				log.Fatalf("Failed to initialize SafeSearch: %v", err)
			}
			moderator = detector
		}
		objectStorage, err := services.NewObjectStorage(ctx, cfg.FirebaseStorageBucket, moderator, gcpOpts...)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
		defer objectStorage.Close()
		objects = objectStorage
	}

	site, err := web.NewHandler(portfolio, auth, web.Options{
		SecureCookies:    cfg.SecureCookies,
		RecaptchaSiteKey: cfg.RecaptchaSiteKey,
	})
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	router := server.NewRouter(server.Handlers{
		Web:          site,
		Auth:         handlers.NewAuthHandler(auth, cfg.SecureCookies),
		Portfolio:    handlers.NewPortfolioHandler(portfolio, services.NewDashboardService(store)),
		Profile:      handlers.NewProfileHandler(profiles),
		Skills:       handlers.NewSkillHandler(skills),
		Projects:     handlers.NewProjectHandler(projects),
		Experience:   handlers.NewExperienceHandler(experience),
		Certificates: handlers.NewCertificateHandler(certificates),
		Resumes:      handlers.NewResumeHandler(resumes),
		Images:       handlers.NewImageHandler(cloudinary, objects, cfg.MaxUploadBytes()),
		Contact: handlers.NewContactHandler(
			services.NewRecaptchaVerifier(cfg.RecaptchaSecret),
			services.NewSendGridMailer(cfg.SendGridAPIKey, cfg.ContactFromEmail, cfg.ContactToEmail),
			profiles,
		),
	}, server.Options{
		Authenticator: auth,
		CSRFKey:       cfg.CSRFAuthKey(),
		SecureCookies: cfg.SecureCookies,
		CORSOrigins:   cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	log.Printf("Portfolio server starting on %s (store=%s auth=%s)", cfg.ServerAddress, cfg.StoreBackend, cfg.AuthProvider)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config, app *firebase.App) (storage.DocumentStore, error) {
	switch cfg.StoreBackend {
	case config.StoreMongo:
		s, err := storage.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		s.EnsureIndexes(ctx, services.MongoIndexes)
		return s, nil
	case config.StoreFirestore:
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, err
		}
		return storage.NewFirestoreStore(client), nil
	default:
		file, err := storage.NewJSONStore(cfg.DataDir, "portfolio.json")
		if err != nil {
			return nil, err
		}
		s, err := storage.NewLocalStore(storage.WithSnapshot(file))
		if err != nil {
			return nil, err
		}
		log.Printf("Using local store at %s", file.Path())
		return s, nil
	}
}

func newAuthenticator(ctx context.Context, cfg *config.Config, app *firebase.App) (services.Authenticator, error) {
	if cfg.AuthProvider == config.AuthFirebase {
		client, err := app.Auth(ctx)
		if err != nil {
			return nil, err
		}
		return services.NewFirebaseAuthenticator(client, cfg.FirebaseAPIKey, cfg.SessionTTL), nil
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Printf("Warning: redis unavailable at %s, login limiting and sign-out revocation disabled: %v", cfg.RedisAddr, err)
			rdb.Close()
			rdb = nil
		}
	}
	return services.NewLocalAuthenticator(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.SessionSecret, cfg.SessionTTL, rdb), nil
}
