// Package main はarithmaサーバーコマンドの実装です
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"arithma/internal/config"
	"arithma/internal/logging"
	"arithma/internal/server"
)

func main() {
	// コマンドラインオプション
	var (
		host   = flag.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
		port   = flag.Int("port", -1, "サーバーのポート (デフォルト: 8080)")
		assets = flag.String("assets", "", "アセットのディレクトリ (デフォルト: site)")
		embed  = flag.Bool("embed", false, "バイナリに埋め込まれたアセットを使う")
		help   = flag.Bool("help", false, "ヘルプを表示")
	)

	flag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println("arithma")
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  server [オプション]")
		fmt.Println()
		fmt.Println("オプション:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定の読み込みに失敗しました: %v\n", err)
		os.Exit(1)
	}

	// コマンドラインオプションで設定を上書き
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port >= 0 {
		cfg.Server.Port = config.ParsePort(fmt.Sprint(*port))
	}
	if *assets != "" {
		cfg.Assets.Source = config.SourceDir
		cfg.Assets.Dir = *assets
	}
	if *embed {
		cfg.Assets.Source = config.SourceEmbed
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "設定が不正です: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	table, err := server.LoadTable(cfg.Assets, logger)
	if err != nil {
		logger.Error("アセットの読み込みに失敗しました", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, table, logger)

	// サーバーを起動
	logger.Info("arithma サーバーを起動します", "addr", cfg.ServerAddress(), "assets", table.Len())
	if err := srv.Start(context.Background()); err != nil {
		logger.Error("サーバーの起動に失敗しました", "error", err)
		os.Exit(1)
	}
}
