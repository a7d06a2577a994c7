// Package middleware connects gin request handling to the di container.
//
// Scope opens one di.Scope per request, so PerScope services are shared
// across everything a single request resolves and never leak into another
// request:
//
//	r := gin.New()
//	r.Use(middleware.Recovery(), middleware.RequestID(), middleware.Scope(container))
//	r.POST("/products", func(c *gin.Context) {
//	    ctrl, err := middleware.Resolve[shop.ProductController](c)
//	    ...
//	})
package middleware
