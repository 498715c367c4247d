package controllers

import "github.com/shashiranjanraj/lojinha/pkg/ctx"

func Health(c *ctx.Context) {
	c.Success(map[string]string{"status": "ok"})
}
