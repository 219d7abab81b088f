package main

import (
	"context"
	"log"
	"os"

	"github.com/vkarpova/atlasinfo/internal/buildinfo"
	"github.com/vkarpova/atlasinfo/internal/cli"
	"github.com/vkarpova/atlasinfo/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
