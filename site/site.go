// Package site は配信するアセットの宣言と、その埋め込みコピーを持つ
package site

import (
	"embed"

	"arithma/internal/assets"
)

// FS はこのディレクトリのアセットをバイナリに埋め込んだもの
//
//go:embed index.html index.css index.js factorization
var FS embed.FS

// Declarations は起動時にキャッシュするアセットの一覧を返す
func Declarations() []assets.Declaration {
	return []assets.Declaration{
		assets.Leaf("favicon.ico"),
		assets.Leaf("index.html"),
		assets.Leaf("index.css"),
		assets.Leaf("index.js"),
		assets.Leaf("waifu.png"),
		assets.Dir("factorization",
			assets.Leaf("index.html"),
			assets.Leaf("index.css"),
			assets.Leaf("index.js"),
		),
	}
}
