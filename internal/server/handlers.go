package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/groupone/webshop/internal/domain"
)

const adminResetCommand = "reset-repo"

type productRequest struct {
	Title        string `json:"title"`
	Category     string `json:"category"`
	Manufacturer string `json:"manufacturer"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	PriceMinor   int64  `json:"price_minor"`
	Quantity     int    `json:"quantity"`
}

type productResponse struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	Manufacturer string `json:"manufacturer"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	PriceMinor   int64  `json:"price_minor"`
	Quantity     int    `json:"quantity"`
}

type customerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Cart      []int  `json:"cart"`
}

type customerResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Cart      []int  `json:"cart"`
}

type cartRequest struct {
	ProductID int `json:"product_id"`
	Amount    int `json:"amount"`
}

// orderRequest — тело PUT /orders/:id. Владельца в нём нет: он задаётся
// маршрутом создания заказа и далее не меняется.
type orderRequest struct {
	Created    *time.Time `json:"created"`
	Shipped    *time.Time `json:"shipped"`
	ProductIDs []int      `json:"product_ids"`
}

type orderResponse struct {
	ID         int        `json:"id"`
	Username   string     `json:"username"`
	Created    time.Time  `json:"created"`
	Shipped    *time.Time `json:"shipped,omitempty"`
	ProductIDs []int      `json:"product_ids"`
}

func toProductResponse(product domain.Product) productResponse {
	return productResponse{
		ID:           product.ID,
		Title:        product.Title,
		Category:     product.Category,
		Manufacturer: product.Manufacturer,
		Description:  product.Description,
		ImageURL:     product.ImageURL,
		PriceMinor:   product.PriceMinor,
		Quantity:     product.Quantity,
	}
}

func toCustomerResponse(customer domain.Customer) customerResponse {
	cart := customer.Cart
	if cart == nil {
		cart = []int{}
	}
	return customerResponse{
		Username:  customer.Username,
		Email:     customer.Email,
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		Address:   customer.Address,
		Phone:     customer.Phone,
		Cart:      cart,
	}
}

func toOrderResponse(order domain.Order) orderResponse {
	ids := order.ProductIDs
	if ids == nil {
		ids = []int{}
	}
	return orderResponse{
		ID:         order.ID,
		Username:   order.Username,
		Created:    order.Created,
		Shipped:    order.Shipped,
		ProductIDs: ids,
	}
}

func pathID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", c.Param("id"))
	}
	return id, nil
}

func (s *Server) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := s.service.AddProduct(domain.ProductParams{
		Title:        req.Title,
		Category:     req.Category,
		Manufacturer: req.Manufacturer,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		PriceMinor:   req.PriceMinor,
		Quantity:     req.Quantity,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/products/%d", product.ID))
	c.JSON(http.StatusCreated, toProductResponse(product))
}

func (s *Server) listProducts(c *gin.Context) {
	products, err := s.service.Products()
	if err != nil {
		s.respondError(c, err)
		return
	}

	out := make([]productResponse, 0, len(products))
	for _, product := range products {
		out = append(out, toProductResponse(product))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := s.service.Product(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (s *Server) updateProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := domain.NewProduct(id, domain.ProductParams{
		Title:        req.Title,
		Category:     req.Category,
		Manufacturer: req.Manufacturer,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		PriceMinor:   req.PriceMinor,
		Quantity:     req.Quantity,
	})
	if err := s.service.UpdateProduct(product); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (s *Server) removeProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.service.RemoveProduct(id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) createCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer := domain.Customer{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Phone:     req.Phone,
		Cart:      req.Cart,
	}
	if err := s.service.AddCustomer(customer); err != nil {
		s.respondError(c, err)
		return
	}

	c.Header("Location", "/api/customers/"+customer.Username)
	c.JSON(http.StatusCreated, toCustomerResponse(customer))
}

func (s *Server) listCustomers(c *gin.Context) {
	customers, err := s.service.Customers()
	if err != nil {
		s.respondError(c, err)
		return
	}

	out := make([]customerResponse, 0, len(customers))
	for _, customer := range customers {
		out = append(out, toCustomerResponse(customer))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getCustomer(c *gin.Context) {
	customer, err := s.service.Customer(c.Param("username"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

func (s *Server) updateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer := domain.Customer{
		Username:  c.Param("username"),
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Phone:     req.Phone,
		Cart:      req.Cart,
	}
	if err := s.service.UpdateCustomer(customer); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

func (s *Server) removeCustomer(c *gin.Context) {
	if err := s.service.RemoveCustomer(c.Param("username")); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) addToCart(c *gin.Context) {
	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := c.Param("username")
	if err := s.service.AddProductToCustomer(req.ProductID, username, req.Amount); err != nil {
		s.respondError(c, err)
		return
	}

	customer, err := s.service.Customer(username)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

func (s *Server) createOrder(c *gin.Context) {
	order, err := s.service.CreateOrder(c.Param("username"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/orders/%d", order.ID))
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.service.Orders(c.Param("username"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getOrder(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := s.service.Order(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// updateOrder берёт недостающие поля из сохранённого заказа, чтобы частичный
// JSON не затирал дату создания или состав. Владелец фиксируется при
// создании заказа: username из тела игнорируется.
func (s *Server) updateOrder(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := s.service.Order(id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if req.Created != nil {
		order.Created = *req.Created
	}
	if req.Shipped != nil {
		order.Shipped = req.Shipped
	}
	if req.ProductIDs != nil {
		order.ProductIDs = req.ProductIDs
	}

	if err := s.service.UpdateOrder(order); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (s *Server) removeOrder(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.service.RemoveOrder(id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) admin(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1024))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read request body"})
		return
	}

	command := strings.TrimSpace(string(body))
	if command != adminResetCommand {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown admin command %q", command)})
		return
	}
	if s.reset == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reset is not configured"})
		return
	}

	if err := s.reset(c.Request.Context()); err != nil {
		s.logger.WithError(err).Error("repository reset failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.logger.Warn("repository reset executed")
	c.JSON(http.StatusOK, gin.H{"status": "reset complete"})
}
