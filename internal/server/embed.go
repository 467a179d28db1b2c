package server

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"arithma/internal/assets"
	"arithma/internal/config"
	"arithma/site"
)

// AssetSource は設定に応じてアセットの読み込み元を返す
func AssetSource(cfg config.AssetsConfig, logger *slog.Logger) (fs.FS, error) {
	switch cfg.Source {
	case config.SourceEmbed:
		return site.FS, nil
	case config.SourceDir:
		// ディレクトリが無くても起動は続け、各アセットは not found としてキャッシュされる
		if _, err := os.Stat(cfg.Dir); err != nil && logger != nil {
			logger.Warn("アセットディレクトリを参照できません", "dir", cfg.Dir, "error", err)
		}
		return os.DirFS(cfg.Dir), nil
	default:
		return nil, fmt.Errorf("無効なアセットの読み込み元: %q", cfg.Source)
	}
}

// LoadTable は宣言済みのアセットをすべて読み込み、不変のテーブルを返す
func LoadTable(cfg config.AssetsConfig, logger *slog.Logger) (*assets.Table, error) {
	src, err := AssetSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	table, err := assets.Build(src, cfg.Root, site.Declarations(), logger)
	if err != nil {
		return nil, fmt.Errorf("アセットキャッシュの構築に失敗: %w", err)
	}
	return table, nil
}
