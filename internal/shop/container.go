package shop

import (
	"sync"

	"github.com/kbukum/tinydi/di"
)

// DefaultContainer returns the process-wide root container, building it on
// first use.
var DefaultContainer = sync.OnceValue(func() *di.Container {
	return Configure(di.New())
})

// Configure registers the shop services on c and returns it.
func Configure(c *di.Container) *di.Container {
	di.Must(di.RegisterPerScope[ProductController, *productController](c, NewProductController))
	di.Must(di.RegisterPerScope[ProductService, *productService](c, NewProductService))
	return c
}

// CreateController resolves a controller of type T from DefaultContainer
// using a fresh scope.
func CreateController[T any]() (T, error) {
	return di.Resolve[T](DefaultContainer())
}
