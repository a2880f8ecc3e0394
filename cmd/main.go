package main

import (
	"github.com/corray333/kitchenpos/internal/app"
	"github.com/corray333/kitchenpos/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
