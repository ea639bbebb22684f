package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	auth "github.com/phillip/blood-donation-go/auth"
	controllers "github.com/phillip/blood-donation-go/controllers"
	middleware "github.com/phillip/blood-donation-go/middleware"
	models "github.com/phillip/blood-donation-go/models"
)

// Options configures the engine-wide middleware.
type Options struct {
	Log     *zap.Logger
	Origins []string
	// Registry receives the HTTP collectors and backs /metrics; nil
	// disables both.
	Registry *prometheus.Registry
}

// NewEngine returns a gin engine with request ids, access logging,
// metrics, recovery and CORS installed.
func NewEngine(opts Options) *gin.Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	// Logging and metrics wrap Recovery so a panicking request is still
	// recorded with its 500.
	r.Use(middleware.RequestID(log), middleware.Logger())
	if opts.Registry != nil {
		r.Use(middleware.NewMetrics(opts.Registry).Handler())
	}
	r.Use(middleware.Recovery())

	if opts.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}

	if len(opts.Origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.Origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "If-None-Match", "X-Request-ID"},
			ExposeHeaders:    []string{"ETag", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	return r
}

func SetupRoutes(r *gin.Engine, env *controllers.Env, verifier auth.Verifier) {
	controllers.RegisterValidators()

	users := env.Store.Users
	authn := middleware.Authenticate(verifier)
	staff := middleware.RequireStaff(users)
	admin := middleware.RequireAdmin(users)
	active := middleware.RequireActive(users)
	self := middleware.RequireSelf(users, "email")
	selfOrAdmin := middleware.RequireSelf(users, "email", models.RoleAdmin)

	// public
	r.GET("/", controllers.Health())
	r.POST("/jwt", controllers.LegacyJWT())
	r.POST("/users", controllers.RegisterUser(env))
	r.GET("/users/role/:email", controllers.GetUserRole(env))
	r.GET("/public-stats", controllers.PublicStats(env))
	r.GET("/all-blogs", controllers.ListBlogs(env))
	r.GET("/featured-blogs", controllers.FeaturedBlogs(env))
	r.GET("/search-donors", controllers.SearchDonors(env))
	r.GET("/donors-search", controllers.SearchDonors(env))

	// users
	r.GET("/users", authn, admin, controllers.ListUsers(env))
	r.GET("/users/:email", authn, selfOrAdmin, controllers.GetUser(env))
	r.PUT("/user/update/:email", authn, selfOrAdmin, controllers.UpdateProfile(env))
	r.PATCH("/users/role/:id", authn, admin, controllers.SetUserRole(env))
	r.PATCH("/users/status/:id", authn, admin, controllers.SetUserStatus(env))

	// donation requests
	r.POST("/donation-requests", authn, active, controllers.CreateDonationRequest(env))
	r.GET("/donation-requests/:email", authn, self, controllers.ListMyDonationRequests(env))
	r.GET("/donation-requests/recent/:email", authn, self, controllers.RecentDonationRequests(env))
	r.GET("/donation-request-details/:id", authn, controllers.GetDonationRequest(env))
	r.PATCH("/donation-requests/:id", authn, controllers.UpdateDonationRequest(env))
	r.DELETE("/donation-requests/:id", authn, controllers.DeleteDonationRequest(env))
	r.PATCH("/donation-requests/:id/donate", authn, active, controllers.DonateToRequest(env))
	r.GET("/all-donation-requests", authn, staff, controllers.ListAllDonationRequests(env))

	// stats
	r.GET("/admin-stats", authn, staff, controllers.AdminStats(env))

	// blogs
	r.POST("/blogs", authn, staff, controllers.CreateBlog(env))
	r.PATCH("/blogs/:id", authn, admin, controllers.SetBlogStatus(env))
	r.DELETE("/blogs/:id", authn, admin, controllers.DeleteBlog(env))

	// payments
	r.POST("/create-payment-intent", authn, controllers.CreatePaymentIntent(env))
	r.POST("/payments", authn, controllers.RecordPayment(env))
	r.GET("/payments/:email", authn, selfOrAdmin, controllers.ListPaymentsByEmail(env))
	r.GET("/all-payments", authn, admin, controllers.ListAllPayments(env))

	// uploads
	r.POST("/uploads/image", authn, controllers.UploadImage(env))
}
