package shop

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tinydi/middleware"
)

// AddProductResponse is returned by POST /products.
type AddProductResponse struct {
	ID int `json:"id"`
}

// Routes mounts the product endpoints. The engine must run middleware.Scope.
func Routes(r gin.IRoutes) {
	r.POST("/products", addProduct)
}

func addProduct(c *gin.Context) {
	var p Product
	if err := c.ShouldBindJSON(&p); err != nil {
		middleware.RespondBadRequest(c, err)
		return
	}

	ctrl, err := middleware.Resolve[ProductController](c)
	if err != nil {
		middleware.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, AddProductResponse{ID: ctrl.Add(p)})
}
