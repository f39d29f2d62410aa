package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	cartdomain "github.com/openmerchant/paygate/internal/cart/domain"
	checkoutdomain "github.com/openmerchant/paygate/internal/checkout/domain"
	"github.com/openmerchant/paygate/internal/config"
	orderdomain "github.com/openmerchant/paygate/internal/order/domain"
	settingsdomain "github.com/openmerchant/paygate/internal/settings/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	db          *gorm.DB
	genID       *snowflake.Node
	checkoutSvc checkoutdomain.Service
	orderSvc    orderdomain.Service
	cartSvc     cartdomain.Service
	settingsSvc settingsdomain.Service
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	DB          *gorm.DB
	GenID       *snowflake.Node
	CheckoutSvc checkoutdomain.Service
	OrderSvc    orderdomain.Service
	CartSvc     cartdomain.Service
	SettingsSvc settingsdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		db:          p.DB,
		genID:       p.GenID,
		checkoutSvc: p.CheckoutSvc,
		orderSvc:    p.OrderSvc,
		cartSvc:     p.CartSvc,
		settingsSvc: p.SettingsSvc,
	}

	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Checkout --------
	api.GET("/gateways", s.ListGateways)
	api.POST("/checkout", s.Checkout)
	api.POST("/checkout/validate", s.ValidateCheckout)

	// -------- Orders --------
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrderByID)
	api.GET("/orders/:id/items", s.ListOrderItems)
	api.GET("/orders/:id/received", s.OrderReceived)

	// -------- Carts --------
	api.POST("/carts/items", s.AddCartItem)
	api.GET("/carts/:token/items", s.ListCartItems)
	api.DELETE("/carts/:token/items", s.EmptyCart)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")

	admin.GET("/orders/:id/payment", s.GetOrderPaymentData)
	admin.POST("/orders/:id/status", s.UpdateOrderStatus)
	admin.GET("/order-statuses", s.ListOrderStatuses)

	admin.GET("/settings", s.ListSettings)
	admin.PUT("/settings/:key", s.PutSetting)
}
