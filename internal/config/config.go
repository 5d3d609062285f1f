package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StoreMongo     = "mongo"
	StoreFirestore = "firestore"
	StoreLocal     = "local"

	AuthFirebase = "firebase"
	AuthLocal    = "local"
)

const devSessionSecret = "development-only-session-secret!"

type Config struct {
	ServerAddress string `yaml:"server_address"`
	AppEnv        string `yaml:"app_env"`

	StoreBackend string `yaml:"store_backend"`
	MongoURI     string `yaml:"mongo_uri"`
	MongoDB      string `yaml:"mongo_db"`
	DataDir      string `yaml:"data_dir"`

	AuthProvider            string        `yaml:"auth_provider"`
	FirebaseProjectID       string        `yaml:"firebase_project_id"`
	FirebaseAPIKey          string        `yaml:"firebase_api_key"`
	FirebaseCredentialsJSON string        `yaml:"firebase_credentials_json"`
	FirebaseStorageBucket   string        `yaml:"firebase_storage_bucket"`
	SessionSecret           string        `yaml:"session_secret"`
	SessionTTL              time.Duration `yaml:"session_ttl"`
	AdminEmail              string        `yaml:"admin_email"`
	AdminPasswordHash       string        `yaml:"admin_password_hash"`
	RedisAddr               string        `yaml:"redis_addr"`
	RedisPassword           string        `yaml:"redis_password"`

	CloudinaryCloudName    string `yaml:"cloudinary_cloud_name"`
	CloudinaryUploadPreset string `yaml:"cloudinary_upload_preset"`
	CloudinaryFolder       string `yaml:"cloudinary_folder"`
	MaxUploadSizeMB        int64  `yaml:"max_upload_size_mb"`
	ModerateUploads        bool   `yaml:"moderate_uploads"`

	RecaptchaSecret  string `yaml:"recaptcha_secret"`
	RecaptchaSiteKey string `yaml:"recaptcha_site_key"`
	SendGridAPIKey   string `yaml:"sendgrid_api_key"`
	ContactFromEmail string `yaml:"contact_from_email"`
	ContactToEmail   string `yaml:"contact_to_email"`

	CSRFKey       string   `yaml:"csrf_key"`
	SecureCookies bool     `yaml:"secure_cookies"`
	CORSOrigins   []string `yaml:"cors_origins"`
}

func defaults() *Config {
	return &Config{
		ServerAddress:    ":8080",
		AppEnv:           "development",
		StoreBackend:     StoreLocal,
		MongoDB:          "portfolio",
		DataDir:          "./data",
		AuthProvider:     AuthLocal,
		SessionTTL:       24 * time.Hour,
		CloudinaryFolder: "portfolio",
		MaxUploadSizeMB:  10,
	}
}

// Load reads the optional YAML file named by CONFIG_FILE, then .env, then
// lets environment variables override both.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[Config] .env not loaded: %v", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.Development() && cfg.SessionSecret == "" {
		cfg.SessionSecret = devSessionSecret
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"SERVER_ADDRESS":            &c.ServerAddress,
		"APP_ENV":                   &c.AppEnv,
		"STORE_BACKEND":             &c.StoreBackend,
		"MONGO_URI":                 &c.MongoURI,
		"MONGO_DB":                  &c.MongoDB,
		"DATA_DIR":                  &c.DataDir,
		"AUTH_PROVIDER":             &c.AuthProvider,
		"FIREBASE_PROJECT_ID":       &c.FirebaseProjectID,
		"FIREBASE_API_KEY":          &c.FirebaseAPIKey,
		"FIREBASE_CREDENTIALS_JSON": &c.FirebaseCredentialsJSON,
		"FIREBASE_STORAGE_BUCKET":   &c.FirebaseStorageBucket,
		"SESSION_SECRET":            &c.SessionSecret,
		"ADMIN_EMAIL":               &c.AdminEmail,
		"ADMIN_PASSWORD_HASH":       &c.AdminPasswordHash,
		"REDIS_ADDR":                &c.RedisAddr,
		"REDIS_PASSWORD":            &c.RedisPassword,
		"CLOUDINARY_CLOUD_NAME":     &c.CloudinaryCloudName,
		"CLOUDINARY_UPLOAD_PRESET":  &c.CloudinaryUploadPreset,
		"CLOUDINARY_FOLDER":         &c.CloudinaryFolder,
		"RECAPTCHA_SECRET":          &c.RecaptchaSecret,
		"RECAPTCHA_SITE_KEY":        &c.RecaptchaSiteKey,
		"SENDGRID_API_KEY":          &c.SendGridAPIKey,
		"CONTACT_FROM_EMAIL":        &c.ContactFromEmail,
		"CONTACT_TO_EMAIL":          &c.ContactToEmail,
		"CSRF_KEY":                  &c.CSRFKey,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	bools := map[string]*bool{
		"MODERATE_UPLOADS": &c.ModerateUploads,
		"SECURE_COOKIES":   &c.SecureCookies,
	}
	for key, dst := range bools {
		if v, ok := os.LookupEnv(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	if v, ok := os.LookupEnv("SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}
	if v, ok := os.LookupEnv("MAX_UPLOAD_SIZE_MB"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_UPLOAD_SIZE_MB: %w", err)
		}
		c.MaxUploadSizeMB = n
	}
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		c.CORSOrigins = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	out := []string{}
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Config) Development() bool {
	return c.AppEnv == "" || c.AppEnv == "development"
}

// MaxUploadBytes is the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadSizeMB << 20
}

// CSRFAuthKey is the 32-byte key for CSRF tokens, derived from CSRF_KEY or,
// when unset, the session secret.
func (c *Config) CSRFAuthKey() []byte {
	seed := c.CSRFKey
	if seed == "" {
		seed = c.SessionSecret
	}
	sum := sha256.Sum256([]byte(seed))
	return sum[:]
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []string

	switch c.StoreBackend {
	case StoreMongo:
		if c.MongoURI == "" {
			errs = append(errs, "MONGO_URI is required for the mongo store")
		}
	case StoreFirestore:
		if c.FirebaseProjectID == "" {
			errs = append(errs, "FIREBASE_PROJECT_ID is required for the firestore store")
		}
	case StoreLocal:
	default:
		errs = append(errs, fmt.Sprintf("STORE_BACKEND %q is not one of mongo, firestore, local", c.StoreBackend))
	}

	switch c.AuthProvider {
	case AuthFirebase:
		if c.FirebaseProjectID == "" {
			errs = append(errs, "FIREBASE_PROJECT_ID is required for firebase auth")
		}
		if c.FirebaseAPIKey == "" {
			errs = append(errs, "FIREBASE_API_KEY is required for firebase auth")
		}
	case AuthLocal:
		if c.AdminEmail == "" || c.AdminPasswordHash == "" {
			errs = append(errs, "ADMIN_EMAIL and ADMIN_PASSWORD_HASH are required for local auth")
		}
	default:
		errs = append(errs, fmt.Sprintf("AUTH_PROVIDER %q is not one of firebase, local", c.AuthProvider))
	}

	if !c.Development() && len(c.SessionSecret) < 32 {
		errs = append(errs, "SESSION_SECRET must be at least 32 characters")
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, "SESSION_TTL must be positive")
	}
	if c.MaxUploadSizeMB <= 0 {
		errs = append(errs, "MAX_UPLOAD_SIZE_MB must be positive")
	}

	if len(errs) > 0 {
		return errors.New("invalid config: " + strings.Join(errs, "; "))
	}
	return nil
}
