package routes

import (
	"github.com/shashiranjanraj/lojinha/app/bootstrap"
	"github.com/shashiranjanraj/lojinha/app/controllers"
	"github.com/shashiranjanraj/lojinha/pkg/ctx"
	"github.com/shashiranjanraj/lojinha/pkg/graphql"
	"github.com/shashiranjanraj/lojinha/pkg/middleware"
	"github.com/shashiranjanraj/lojinha/pkg/router"
)

// RegisterAPI mounts the REST API, the GraphQL endpoint and /health.
func RegisterAPI(r *router.Router, svc *bootstrap.Services) {
	users := controllers.NewUserController(svc.Auth)
	checkout := controllers.NewCheckoutController(svc.Checkout, svc.Auth)

	r.Get("/health", "health", ctx.Wrap(controllers.Health))

	api := r.Group("/api")
	api.Get("/users", "users.index", ctx.Wrap(users.Index))
	api.Post("/users/register", "users.register", ctx.Wrap(users.Register))
	api.Post("/users/login", "users.login", ctx.Wrap(users.Login))
	api.Post("/checkout", "checkout", ctx.Wrap(checkout.Checkout), middleware.Bearer)

	gql := r.Group("/graphql", middleware.Bearer)
	gql.Get("", "graphql.query", graphql.Handler(svc.Schema))
	gql.Post("", "graphql", graphql.Handler(svc.Schema))
}
