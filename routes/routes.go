package routes

import (
	"storefront/controllers"
	"storefront/handler"
	"storefront/middleware"
	"storefront/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Controllers struct {
	Auth          *controllers.AuthController
	Collections   *controllers.CollectionController
	Products      *controllers.ProductController
	Carts         *controllers.CartController
	Notifications *controllers.NotificationController
	Playground    *controllers.PlaygroundController
}

type Options struct {
	ServiceName string
	JWTSecret   string
	UploadDir   string
	Swagger     bool
	Tracing     bool
}

func SetupRoutes(router *gin.Engine, ctrl Controllers, opts Options) {
	controllers.UseJSONFieldNames()

	if opts.Tracing {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	router.GET("/health", gin.WrapF(handler.Handler))
	if opts.UploadDir != "" {
		router.Static("/uploads", opts.UploadDir)
	}

	authenticated := router.Group("/")
	authenticated.Use(middleware.Authenticate(opts.JWTSecret))

	can := middleware.Authorize

	authGroup := authenticated.Group("/auth")
	{
		authGroup.POST("/register", ctrl.Auth.Register)
		authGroup.POST("/login", ctrl.Auth.Login)
		authGroup.GET("/profile", can(services.Profile), ctrl.Auth.Profile)
	}

	store := authenticated.Group("/store")
	{
		store.GET("/collections", can(services.CatalogRead), ctrl.Collections.List)
		store.GET("/collections/:id", can(services.CatalogRead), ctrl.Collections.Get)
		store.POST("/collections", can(services.CatalogWrite), ctrl.Collections.Create)
		store.PUT("/collections/:id", can(services.CatalogWrite), ctrl.Collections.Update)
		store.PATCH("/collections/:id", can(services.CatalogWrite), ctrl.Collections.Update)
		store.DELETE("/collections/:id", can(services.CatalogWrite), ctrl.Collections.Delete)

		store.GET("/products", can(services.CatalogRead), ctrl.Products.List)
		store.GET("/products/:id", can(services.CatalogRead), ctrl.Products.Get)
		store.POST("/products", can(services.CatalogWrite), ctrl.Products.Create)
		store.PUT("/products/:id", can(services.CatalogWrite), ctrl.Products.Update)
		store.PATCH("/products/:id", can(services.CatalogWrite), ctrl.Products.Update)
		store.DELETE("/products/:id", can(services.CatalogWrite), ctrl.Products.Delete)

		store.GET("/products/:id/images", can(services.CatalogRead), ctrl.Products.ListImages)
		store.POST("/products/:id/images", can(services.CatalogWrite), ctrl.Products.UploadImage)
		store.DELETE("/products/:id/images/:image_id", can(services.CatalogWrite), ctrl.Products.DeleteImage)

		store.POST("/carts", can(services.CartCreate), ctrl.Carts.Create)
		store.GET("/carts/:cart_id", can(services.CartRead), ctrl.Carts.Get)
		store.DELETE("/carts/:cart_id", can(services.CartItemWrite), ctrl.Carts.Delete)
		store.GET("/carts/:cart_id/items", can(services.CartRead), ctrl.Carts.ListItems)
		store.POST("/carts/:cart_id/items", can(services.CartItemWrite), ctrl.Carts.AddItem)
		store.GET("/carts/:cart_id/items/:id", can(services.CartRead), ctrl.Carts.GetItem)
		store.PATCH("/carts/:cart_id/items/:id", can(services.CartItemWrite), ctrl.Carts.UpdateItem)
		store.DELETE("/carts/:cart_id/items/:id", can(services.CartItemWrite), ctrl.Carts.RemoveItem)

		store.POST("/notifications/customers", can(services.NotifyCustomers), ctrl.Notifications.NotifyCustomers)
	}

	playground := authenticated.Group("/playground")
	{
		playground.POST("/hello", can(services.Playground), ctrl.Playground.Hello)
		playground.GET("/slow-endpoint", can(services.Playground), ctrl.Playground.SlowEndpoint)
	}
}
