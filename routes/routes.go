package routes

import (
	"food-ordering-api/guard"
	"food-ordering-api/handlers"
	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Deps is what the routes need beyond the handlers themselves.
type Deps struct {
	Handler        *handlers.Handler
	Auth           *middleware.Auth
	Uploads        storage.Saver
	MaxUploadBytes int64
	ImageDir       string
	Log            logrus.FieldLogger
}

// ImageField is the multipart field carrying a menu item picture.
const ImageField = "image"

func SetupRoutes(r *gin.Engine, d Deps) {
	h := d.Handler
	authed := d.Auth.AuthRequired()
	manager := middleware.RoleRequired(models.RoleAdmin, models.RoleRestaurant)

	r.Static("/images", d.ImageDir)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/user/register", h.Register)
		public.POST("/user/login", h.Login)

		public.GET("/food/list", h.ListFood)
		public.GET("/food/:id", h.GetFood)
		public.GET("/restaurants", h.ListRestaurants)
		public.GET("/restaurants/:id", h.GetRestaurant)
	}

	// ── Menu management ────────────────────────────────────────────
	food := r.Group("/api/food")
	food.Use(authed, manager)
	{
		// auth runs before the upload so rejected callers never write files
		food.POST("/add", storage.SingleFile(d.Uploads, ImageField, d.MaxUploadBytes, d.Log), h.AddFood)
		food.PUT("/:id", h.UpdateFood)
		food.POST("/remove", h.RemoveFood)
	}

	// ── Authenticated routes ───────────────────────────────────────
	user := r.Group("/api")
	user.Use(authed)
	{
		user.GET("/user/profile", h.GetProfile)

		user.GET("/cart", h.GetCart)
		user.POST("/cart/add", h.AddToCart)
		user.POST("/cart/remove", h.RemoveFromCart)
		user.PUT("/cart/items/:itemId", h.SetCartQuantity)
		user.DELETE("/cart", h.ClearCart)

		user.POST("/address", h.CreateAddress)
		user.GET("/address", h.ListAddresses)
		user.PUT("/address/:id", h.UpdateAddress)
		user.DELETE("/address/:id", h.DeleteAddress)
		user.PUT("/address/:id/default", h.SetDefaultAddress)

		user.POST("/wishlist", h.AddToWishlist)
		user.GET("/wishlist", h.ListWishlist)
		user.DELETE("/wishlist/:itemId", h.RemoveFromWishlist)
	}

	// ── Restaurant owner routes ────────────────────────────────────
	restaurant := r.Group("/api/restaurant")
	restaurant.Use(authed, middleware.RoleRequired(models.RoleRestaurant))
	{
		restaurant.POST("", h.CreateRestaurant)
		restaurant.GET("", h.GetMyRestaurant)
		restaurant.PUT("", h.UpdateRestaurant)
	}

	// ── Views ──────────────────────────────────────────────────────
	r.GET("/", h.View)
	r.GET(guard.DefaultLoginPath, h.View)

	views := r.Group("/")
	views.Use(guard.Provide(guard.ResolverFunc(d.Auth.AuthState)), guard.Protected(guard.DefaultLoginPath))
	{
		views.GET("/cart", h.View)
		views.GET("/wishlist", h.View)
		views.GET("/addresses", h.View)
		views.GET("/profile", h.View)
	}
}
