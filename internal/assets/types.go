package assets

import (
	"path"
	"sort"
	"strings"
)

// MediaType はキャッシュされたアセットのContent-Type
type MediaType string

const (
	MediaTypeHTML       MediaType = "text/html"
	MediaTypeCSS        MediaType = "text/css"
	MediaTypeJavaScript MediaType = "text/javascript"
	MediaTypeSVG        MediaType = "image/svg+xml"
	MediaTypePlain      MediaType = "text/plain"

	// MediaTypeError は読み込みに失敗したエントリを表す番兵
	MediaTypeError MediaType = "error"
)

// NotFoundContent は存在しないアセットの番兵エントリが持つ内容
const NotFoundContent = "not found"

// MediaTypeFor はファイル名の拡張子からメディアタイプを決める。
// 未知の拡張子や拡張子なしは text/plain
func MediaTypeFor(name string) MediaType {
	switch strings.TrimPrefix(path.Ext(name), ".") {
	case "html":
		return MediaTypeHTML
	case "css":
		return MediaTypeCSS
	case "js":
		return MediaTypeJavaScript
	case "svg":
		return MediaTypeSVG
	default:
		return MediaTypePlain
	}
}

// Declaration はアセットツリーのノード。Children が nil でなければディレクトリ
type Declaration struct {
	Name     string
	Children []Declaration
}

// Leaf はファイルの宣言を作る
func Leaf(name string) Declaration {
	return Declaration{Name: name}
}

// Dir はディレクトリの宣言を作る
func Dir(name string, children ...Declaration) Declaration {
	if children == nil {
		children = []Declaration{}
	}
	return Declaration{Name: name, Children: children}
}

// IsDir はディレクトリかどうかを返す
func (d Declaration) IsDir() bool {
	return d.Children != nil
}

// Asset は1つの葉を解決した結果
type Asset struct {
	Path      string
	Content   []byte
	MediaType MediaType
}

// IsError は番兵エントリかどうかを返す
func (a Asset) IsError() bool {
	return a.MediaType == MediaTypeError
}

// IsNotFound は「存在しない」番兵エントリかどうかを返す
func (a Asset) IsNotFound() bool {
	return a.IsError() && string(a.Content) == NotFoundContent
}

// Table はパスからアセットへの不変な対応表。
// 構築後は読み取り専用なので複数のゴルーチンから同時に参照してよい
type Table struct {
	entries map[string]Asset
}

// NewTable はエントリをコピーしてテーブルを作る
func NewTable(entries map[string]Asset) *Table {
	copied := make(map[string]Asset, len(entries))
	for key, asset := range entries {
		copied[key] = asset
	}
	return &Table{entries: copied}
}

// Lookup はキーに完全一致するエントリを返す
func (t *Table) Lookup(key string) (Asset, bool) {
	asset, ok := t.entries[key]
	return asset, ok
}

// Len はエントリ数を返す
func (t *Table) Len() int {
	return len(t.entries)
}

// Paths はキーをソートして返す
func (t *Table) Paths() []string {
	paths := make([]string, 0, len(t.entries))
	for key := range t.entries {
		paths = append(paths, key)
	}
	sort.Strings(paths)
	return paths
}

// Stats は結果ごとのエントリ数
type Stats struct {
	Cached   int
	NotFound int
	Failed   int
}

// Stats はテーブルの内訳を集計する
func (t *Table) Stats() Stats {
	var s Stats
	for _, asset := range t.entries {
		switch {
		case asset.IsNotFound():
			s.NotFound++
		case asset.IsError():
			s.Failed++
		default:
			s.Cached++
		}
	}
	return s
}
