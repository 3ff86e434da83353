package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/naveen1798kumar/acb-backend/docs"
	"github.com/naveen1798kumar/acb-backend/internal/category"
	"github.com/naveen1798kumar/acb-backend/internal/config"
	"github.com/naveen1798kumar/acb-backend/internal/event"
	"github.com/naveen1798kumar/acb-backend/internal/httpx"
	"github.com/naveen1798kumar/acb-backend/internal/mail"
	"github.com/naveen1798kumar/acb-backend/internal/order"
	"github.com/naveen1798kumar/acb-backend/internal/payment"
	"github.com/naveen1798kumar/acb-backend/internal/product"
	"github.com/naveen1798kumar/acb-backend/internal/user"
)

// @title        ACB Bakery Storefront API
// @version      1.0
// @description  Storefront backend: catalog, cart, orders and Razorpay payment reconciliation.
// @BasePath     /api
func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	orders := order.NewPGRepo(pool)
	payments := payment.NewPGStore(pool)
	products := product.NewPGRepo(pool)
	categories := category.NewPGRepo(pool)
	events := event.NewPGRepo(pool)
	users := user.NewPGRepo(pool)
	carts := user.NewPGCartStore(pool)

	gateway := payment.NewRazorpayClient(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	engine := payment.NewEngine(orders, payments, gateway,
		cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.FrontendURL+"/payment-success")

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	}

	auth := httpx.NewAuth(cfg.JWTSecret)

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// auth
	api.POST("/auth/register", registerHandler(users, auth))
	api.POST("/auth/login", loginHandler(users, auth))
	api.POST("/auth/admin-login", adminLoginHandler(cfg, auth))
	api.POST("/auth/forgot-password", forgotPasswordHandler(users, mailer, cfg.FrontendURL))
	api.POST("/auth/reset-password/:token", resetPasswordHandler(users))

	// users
	api.GET("/users/profile", auth.Protect(), getProfileHandler(users))
	api.PUT("/users/profile", auth.Protect(), updateProfileHandler(users))
	api.GET("/users", auth.ProtectAdmin(), listUsersHandler(users))

	// cart
	api.GET("/cart", auth.Protect(), getCartHandler(carts, products))
	api.POST("/cart", auth.Protect(), addToCartHandler(carts, products))
	api.DELETE("/cart/:productId", auth.Protect(), removeFromCartHandler(carts))

	// catalog
	api.GET("/products", listProductsHandler(products))
	api.GET("/products/top-selling", topSellingHandler(products))
	api.GET("/products/:id", getProductHandler(products))
	api.POST("/products", auth.ProtectAdmin(), createProductHandler(products))
	api.PUT("/products/:id", auth.ProtectAdmin(), updateProductHandler(products))
	api.DELETE("/products/:id", auth.ProtectAdmin(), deleteProductHandler(products))

	api.GET("/categories", listCategoriesHandler(categories))
	api.POST("/categories", auth.ProtectAdmin(), createCategoryHandler(categories))
	api.PUT("/categories/:id", auth.ProtectAdmin(), updateCategoryHandler(categories))
	api.DELETE("/categories/:id", auth.ProtectAdmin(), deleteCategoryHandler(categories))
	api.POST("/categories/:id/subcategories", auth.ProtectAdmin(), addSubcategoryHandler(categories))
	api.DELETE("/categories/:id/subcategories/:name", auth.ProtectAdmin(), deleteSubcategoryHandler(categories))

	api.GET("/events", listEventsHandler(events, products))
	api.GET("/events/:id", getEventHandler(events, products))
	api.POST("/events", auth.ProtectAdmin(), createEventHandler(events))
	api.PUT("/events/:id", auth.ProtectAdmin(), updateEventHandler(events))
	api.DELETE("/events/:id", auth.ProtectAdmin(), deleteEventHandler(events))

	// orders
	api.POST("/orders", auth.Protect(), createOrderHandler(orders))
	api.GET("/orders", auth.ProtectAdmin(), listOrdersHandler(orders))
	api.GET("/orders/user/:userId", auth.Protect(), listOrdersByUserHandler(orders))
	api.GET("/orders/:id", auth.Protect(), getOrderHandler(orders))
	api.PUT("/orders/:id/status", auth.ProtectAdmin(), updateOrderStatusHandler(orders))
	api.PUT("/orders/:id/payment", auth.ProtectAdmin(), setPaymentStatusHandler(orders))

	// payments
	api.POST("/payments/create", createPaymentHandler(engine))
	api.POST("/payments/verify", verifyPaymentHandler(engine))

	log.Printf("storefront-api listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}
