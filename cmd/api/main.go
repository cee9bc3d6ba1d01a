package main

import (
	"context"
	"log"
	"os"

	"github.com/sportshop/storefront/internal/app/bootstrap"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/default.yaml"
	}
	rt, err := bootstrap.NewRuntime(context.Background(), configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := rt.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
