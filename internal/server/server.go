package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/groupone/webshop/internal/domain"
	"github.com/groupone/webshop/internal/service/shop"
)

// ResetFunc полностью очищает хранилище. Подставляется приложением в
// зависимости от выбранного backend.
type ResetFunc func(ctx context.Context) error

// Server оборачивает gin-маршрутизацию вокруг сервиса магазина.
type Server struct {
	engine  *gin.Engine
	service *shop.Service
	reset   ResetFunc
	logger  *log.Entry
}

// Options задаёт необязательные зависимости HTTP-сервера.
type Options struct {
	Reset  ResetFunc
	Logger *log.Entry
}

// NewServer создаёт HTTP-сервер магазина.
func NewServer(service *shop.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "http-server")
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	server := &Server{
		engine:  engine,
		service: service,
		reset:   opts.Reset,
		logger:  logger,
	}
	server.setupRoutes()

	return server
}

// Handler возвращает http.Handler для запуска через http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes() {
	api := s.engine.Group("/api")
	{
		api.POST("/products", s.createProduct)
		api.GET("/products", s.listProducts)
		api.GET("/products/:id", s.getProduct)
		api.PUT("/products/:id", s.updateProduct)
		api.DELETE("/products/:id", s.removeProduct)

		api.POST("/customers", s.createCustomer)
		api.GET("/customers", s.listCustomers)
		api.GET("/customers/:username", s.getCustomer)
		api.PUT("/customers/:username", s.updateCustomer)
		api.DELETE("/customers/:username", s.removeCustomer)
		api.POST("/customers/:username/cart", s.addToCart)
		api.POST("/customers/:username/orders", s.createOrder)
		api.GET("/customers/:username/orders", s.listOrders)

		api.GET("/orders/:id", s.getOrder)
		api.PUT("/orders/:id", s.updateOrder)
		api.DELETE("/orders/:id", s.removeOrder)

		api.POST("/admin", s.admin)
	}
}

// respondError переводит доменные ошибки в HTTP-статусы: ошибки клиента
// (не найдено, пустая корзина, нехватка остатка, дубликат, валидация)
// дают 400, всё остальное 500.
func (s *Server) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if isClientError(err) {
		status = http.StatusBadRequest
	} else {
		s.logger.WithError(err).Error("request failed")
	}

	c.JSON(status, gin.H{"error": rootMessage(err)})
}

func isClientError(err error) bool {
	if domain.IsNotFound(err) {
		return true
	}
	for _, sentinel := range []error{
		domain.ErrNoProducts,
		domain.ErrNoCustomers,
		domain.ErrNoOrders,
		domain.ErrEmptyCart,
		domain.ErrInsufficientStock,
		domain.ErrDuplicate,
		domain.ErrProductIDInvalid,
		domain.ErrProductTitleEmpty,
		domain.ErrPriceNegative,
		domain.ErrQuantityNegative,
		domain.ErrUsernameRequired,
		domain.ErrOrderIDInvalid,
		domain.ErrOrderItemsRequired,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// rootMessage снимает сервисную обёртку, оставляя исходное сообщение.
func rootMessage(err error) string {
	var serviceErr *shop.Error
	if errors.As(err, &serviceErr) && serviceErr.Err != nil {
		return serviceErr.Err.Error()
	}
	return err.Error()
}
