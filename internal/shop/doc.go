// Package shop is a small product catalogue wired through the di container.
// It shows the intended shape of an application: interfaces for services
// and controllers, constructors that take their dependencies as parameters,
// and one root container built at startup.
package shop
