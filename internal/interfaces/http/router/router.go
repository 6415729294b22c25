package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers a handler's routes on a group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router wires handlers into the engine. Routes split into three surfaces:
// system probes at the root, webhook receivers under /webhooks, and the
// authenticated admin API under /api/<version>.
type Router struct {
	engine     *gin.Engine
	apiVersion string

	system   []RouteRegistrar
	webhooks []RouteRegistrar
	api      []RouteRegistrar

	apiMiddleware     []gin.HandlerFunc
	webhookMiddleware []gin.HandlerFunc
}

// Option configures the router
type Option func(*Router)

// WithAPIVersion sets the admin API version prefix (default "v1")
func WithAPIVersion(version string) Option {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAPIMiddleware adds middleware applied only to the admin API group
func WithAPIMiddleware(middleware ...gin.HandlerFunc) Option {
	return func(r *Router) {
		r.apiMiddleware = append(r.apiMiddleware, middleware...)
	}
}

// WithWebhookMiddleware adds middleware applied only to the webhook group
func WithWebhookMiddleware(middleware ...gin.HandlerFunc) Option {
	return func(r *Router) {
		r.webhookMiddleware = append(r.webhookMiddleware, middleware...)
	}
}

// New creates a router
func New(engine *gin.Engine, opts ...Option) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// System registers handlers on the engine root
func (r *Router) System(registrars ...RouteRegistrar) *Router {
	r.system = append(r.system, registrars...)
	return r
}

// Webhooks registers handlers under /webhooks, outside the admin API's
// session authentication
func (r *Router) Webhooks(registrars ...RouteRegistrar) *Router {
	r.webhooks = append(r.webhooks, registrars...)
	return r
}

// API registers handlers under the versioned admin API group
func (r *Router) API(registrars ...RouteRegistrar) *Router {
	r.api = append(r.api, registrars...)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	root := r.engine.Group("")
	for _, registrar := range r.system {
		registrar.RegisterRoutes(root)
	}

	webhooks := r.engine.Group("/webhooks")
	webhooks.Use(r.webhookMiddleware...)
	for _, registrar := range r.webhooks {
		registrar.RegisterRoutes(webhooks)
	}

	api := r.engine.Group("/api/" + r.apiVersion)
	api.Use(r.apiMiddleware...)
	for _, registrar := range r.api {
		registrar.RegisterRoutes(api)
	}
}
