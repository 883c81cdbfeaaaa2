package main

import (
	"os"

	"github.com/fitpress/blogapi/config"
	"github.com/fitpress/blogapi/routes"
	"github.com/fitpress/blogapi/seed"
	"github.com/fitpress/blogapi/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase()

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := seed.Run(db); err != nil {
			utils.Sugar.Fatalf("seed failed: %v", err)
		}
		utils.Sugar.Info("seed complete")
		return
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
