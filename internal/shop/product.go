package shop

import "sync/atomic"

// Product is an item in the catalogue.
type Product struct {
	ID   int    `json:"id"`
	Name string `json:"name" binding:"max=128"`
}

// ProductService holds product business logic.
type ProductService interface {
	// Add stores p and returns the ID assigned to the next product.
	Add(p Product) int
}

// serviceSeq numbers productService instances so each one has its own identity.
var serviceSeq atomic.Int64

type productService struct {
	instance int64
}

// NewProductService returns the default ProductService.
func NewProductService() *productService {
	return &productService{instance: serviceSeq.Add(1)}
}

func (s *productService) Add(p Product) int {
	return p.ID + 1
}

// ProductController exposes product operations to transports.
type ProductController interface {
	Add(p Product) int
}

type productController struct {
	service ProductService
}

// NewProductController returns a ProductController backed by service.
func NewProductController(service ProductService) *productController {
	return &productController{service: service}
}

func (c *productController) Add(p Product) int {
	return c.service.Add(p)
}
