package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/ulmotion/internal/app"
	"github.com/relabs-tech/ulmotion/internal/config"
)

func main() {
	configPath := flag.String("config", "ulmotion_config.txt", "path to the configuration file")
	seed := flag.Int64("seed", 1, "random seed for the synthetic movement session")
	flag.Parse()

	log.Println("starting ulmotion simulator (mock two-limb producer)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunSimulator(*seed); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
