package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"arithma/internal/config"
	"arithma/internal/logging"
	"arithma/internal/server"
)

func main() {
	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定の読み込みに失敗しました: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// リッスンする前にアセットをすべて読み込む
	table, err := server.LoadTable(cfg.Assets, logger)
	if err != nil {
		logger.Error("アセットの読み込みに失敗しました", "error", err)
		os.Exit(1)
	}
	logger.Info("アセットを読み込みました", "entries", table.Len())

	// サーバーを作成
	srv := server.New(cfg, table, logger)

	// サーバーを起動
	if err := srv.Start(context.Background()); err != nil {
		logger.Error("サーバーの起動に失敗しました", "error", err)
		os.Exit(1)
	}
}
