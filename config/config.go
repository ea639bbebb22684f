package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/phillip/blood-donation-go/auth"
	"github.com/phillip/blood-donation-go/controllers"
	"github.com/phillip/blood-donation-go/payments"
	"github.com/phillip/blood-donation-go/store/memstore"
	"github.com/phillip/blood-donation-go/store/mongostore"
	"github.com/phillip/blood-donation-go/utils"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

var defaultOrigins = []string{
	"http://localhost:5173",
	"https://blood-donation-client.web.app",
}

type Config struct {
	Port           string
	AppEnv         string
	MongoURI       string
	DBName         string
	StoreDriver    string
	CORSOrigins    []string
	RequestTimeout time.Duration

	FirebaseProjectID string

	StripeSecretKey string
	Currency        string

	CloudinaryName   string
	CloudinaryKey    string
	CloudinarySecret string

	ZeptoAPIURL string
	ZeptoAPIKey string
	EmailFrom   string

	// MongoClient is set by Connect when the mongo driver is used.
	MongoClient *mongo.Client
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "5000"),
		AppEnv:            getEnv("APP_ENV", "production"),
		DBName:            getEnv("DB_NAME", "bloodDonationDB"),
		StoreDriver:       getEnv("STORE_DRIVER", DriverMongo),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "")),
		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
		StripeSecretKey:   os.Getenv("STRIPE_SECRET_KEY"),
		Currency:          getEnv("PAYMENT_CURRENCY", "usd"),
		CloudinaryName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryKey:     os.Getenv("CLOUDINARY_API_KEY"),
		CloudinarySecret:  os.Getenv("CLOUDINARY_API_SECRET"),
		ZeptoAPIURL:       getEnv("ZEPTO_API_URL", "https://api.zeptomail.com/v1.1/email"),
		ZeptoAPIKey:       os.Getenv("ZEPTO_API_KEY"),
		EmailFrom:         os.Getenv("EMAIL_FROM"),
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = defaultOrigins
	}

	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = timeout

	cfg.MongoURI = os.Getenv("MONGODB_URI")
	if cfg.MongoURI == "" && os.Getenv("DB_HOST") != "" {
		cfg.MongoURI = fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority",
			url.QueryEscape(os.Getenv("DB_USER")),
			url.QueryEscape(os.Getenv("DB_PASS")),
			os.Getenv("DB_HOST"),
		)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI or DB_HOST must be set")
		}
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID must be set")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// Connect opens the Mongo client. It is a no-op for the memory driver.
func (c *Config) Connect(ctx context.Context) error {
	if c.StoreDriver != DriverMongo {
		return nil
	}
	client, err := mongostore.Connect(ctx, c.MongoURI)
	if err != nil {
		return err
	}
	c.MongoClient = client
	return nil
}

func (c *Config) Database() *mongo.Database {
	return c.MongoClient.Database(c.DBName)
}

// Verifier returns the ID-token verifier for the configured project.
func (c *Config) Verifier() auth.Verifier {
	return auth.NewFirebaseVerifier(c.FirebaseProjectID, auth.NewGoogleKeys())
}

// Env assembles the handler dependencies. Optional integrations that are
// not configured are left nil (payments, images) or replaced by a no-op
// (mail), and logged once here.
func (c *Config) Env(log *zap.Logger) (*controllers.Env, error) {
	env := &controllers.Env{Mailer: utils.NopMailer{}}

	switch c.StoreDriver {
	case DriverMemory:
		env.Store = memstore.New().Store()
		log.Warn("using in-memory store; data is lost on restart")
	default:
		if c.MongoClient == nil {
			return nil, errors.New("mongo client not connected")
		}
		env.Store = mongostore.New(c.Database(), c.RequestTimeout)
	}

	if c.StripeSecretKey != "" {
		env.Payments = payments.NewStripe(c.StripeSecretKey, c.Currency)
	} else {
		log.Warn("STRIPE_SECRET_KEY not set; payment intents disabled")
	}

	if c.CloudinaryName != "" {
		cld, err := utils.NewCloudinary(c.CloudinaryName, c.CloudinaryKey, c.CloudinarySecret)
		if err != nil {
			return nil, err
		}
		env.Images = cld
	} else {
		log.Warn("Cloudinary not configured; image uploads disabled")
	}

	if c.ZeptoAPIKey != "" && c.EmailFrom != "" {
		env.Mailer = utils.NewZeptoMail(c.ZeptoAPIURL, c.ZeptoAPIKey, c.EmailFrom)
	}

	return env, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
