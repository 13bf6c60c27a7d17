package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/municollect/internal/buildinfo"
	"github.com/dmitrijs2005/municollect/internal/mockapi"
	"github.com/dmitrijs2005/municollect/internal/mockapi/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := mockapi.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}

}
