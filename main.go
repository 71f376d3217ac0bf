package main

import (
	"context"
	"fmt"

	"bitwise74/gallery-api/api"
	"bitwise74/gallery-api/config"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	a, err := api.NewRouter()
	if err != nil {
		panic(err)
	}

	if viper.GetBool("sync-stats") {
		if _, err := a.Stats.Resync(context.Background()); err != nil {
			zap.L().Error("Startup stats resync failed", zap.Error(err))
		}
	}

	zap.L().Info("Server starting", zap.Int("port", viper.GetInt("host.port")))

	err = a.Router.Run(fmt.Sprintf(":%d", viper.GetInt("host.port")))
	if err != nil {
		panic(err)
	}
}
