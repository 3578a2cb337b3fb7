package main

import (
	"github.com/freshfold/orderdesk/internal/app"
	"github.com/freshfold/orderdesk/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
