// Package di provides a small dependency injection container.
//
// A Container maps service keys (reflect.Type values) to registrations. Each
// registration pairs a factory with a lifetime:
//
//   - Transient: a new value on every resolution.
//   - PerScope: one value per Scope, shared by every resolution made through it.
//   - Singleton: one value for the owning container and every container derived from it.
//
// # Registration
//
// Type-based registration takes exactly one constructor function whose
// parameters are resolved from the container:
//
//	c := di.New()
//	di.Must(di.RegisterPerScope[ProductService, *productService](c, NewProductService))
//	di.Must(di.RegisterPerScope[ProductController, *productController](c, NewProductController))
//
// Factory registration is the escape hatch for values that need hand-built
// wiring:
//
//	di.RegisterSingletonFactory[*sql.DB](c, func(r di.Resolver) (*sql.DB, error) {
//	    return sql.Open("postgres", dsn)
//	})
//
// # Resolution
//
//	ctrl, err := di.Resolve[ProductController](c) // throwaway scope
//
//	scope := c.CreateScope()                       // shared PerScope values
//	a := di.MustResolve[ProductController](scope)
//	b := di.MustResolve[ProductController](scope)  // a == b
//
// # Customization
//
// Customize derives an empty child container. Registering a key on the child
// shadows the parent's registration without touching the parent:
//
//	test := c.Customize().RegisterFactory(di.Key[ProductService](), fakeService, di.Transient)
//
// All containers derived from one root share a single mutex. Resolution and
// registration anywhere in the hierarchy are serialized on it, which keeps
// singleton construction at most once. Factories must resolve further
// dependencies through the Resolver they receive; resolving through a
// Container captured from the enclosing scope deadlocks.
//
// The container does not detect dependency cycles and does not dispose of
// the values it constructs.
package di
