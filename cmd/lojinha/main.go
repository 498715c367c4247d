package main

import (
	"context"

	"github.com/shashiranjanraj/lojinha/app/bootstrap"
	"github.com/shashiranjanraj/lojinha/app/routes"
	"github.com/shashiranjanraj/lojinha/database/seeders"
	"github.com/shashiranjanraj/lojinha/pkg/app"
	"github.com/shashiranjanraj/lojinha/pkg/router"
)

func main() {
	var svc *bootstrap.Services

	app.New().
		Boot(func(ctx context.Context) (func(), error) {
			s, err := bootstrap.FromConfig(ctx)
			if err != nil {
				return nil, err
			}
			svc = s
			return s.Close, nil
		}).
		Routes(func(r *router.Router) {
			routes.RegisterAPI(r, svc)
		}).
		Seeders(seeders.RunAll).
		Run()
}
