package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
)

// Build は宣言ツリーを深さ優先で走査し、各葉を src から一度だけ読み込んでテーブルを作る。
// キーは root と祖先ディレクトリ名と葉の名前を / で連結したもの (例: site/factorization/index.html)。
// src は root に相当するディレクトリを指す。
//
// 存在しない葉は {NotFoundContent, MediaTypeError} としてキャッシュする。
// それ以外の読み込み失敗は途中までのテーブルを捨ててエラーを返す
func Build(src fs.FS, root string, declarations []Declaration, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := cacheTree(src, root, "", declarations, logger)
	if err != nil {
		return nil, err
	}

	return &Table{entries: entries}, nil
}

// cacheTree は dir 以下の宣言を読み込む。子ディレクトリの結果は後勝ちでマージする
func cacheTree(src fs.FS, root, dir string, declarations []Declaration, logger *slog.Logger) (map[string]Asset, error) {
	out := make(map[string]Asset, len(declarations))

	for _, decl := range declarations {
		rel := path.Join(dir, decl.Name)

		if decl.IsDir() {
			children, err := cacheTree(src, root, rel, decl.Children, logger)
			if err != nil {
				return nil, err
			}
			for key, asset := range children {
				out[key] = asset
			}
			continue
		}

		asset, err := cacheLeaf(src, root, rel, logger)
		if err != nil {
			return nil, err
		}
		out[asset.Path] = asset
	}

	return out, nil
}

func cacheLeaf(src fs.FS, root, rel string, logger *slog.Logger) (Asset, error) {
	key := root + "/" + rel
	logger.Debug("caching", "path", key)

	data, err := fs.ReadFile(src, rel)
	switch {
	case err == nil:
		return Asset{Path: key, Content: data, MediaType: MediaTypeFor(rel)}, nil
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("asset not found", "path", key)
		return Asset{Path: key, Content: []byte(NotFoundContent), MediaType: MediaTypeError}, nil
	default:
		return Asset{}, fmt.Errorf("アセットの読み込みに失敗: %s: %w", key, err)
	}
}
