package server

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"arithma/internal/assets"
)

// DefaultDocument はディレクトリ形式のパスに付け足すファイル名
const DefaultDocument = "index.html"

const plainTextContentType = "text/plain; charset=utf-8"

// handleRequest は運用エンドポイント以外のすべてのリクエストを振り分ける
func (s *Server) handleRequest(c *gin.Context) {
	if s.isAPIPath(c.Request.URL.Path) {
		s.handleAPI(c)
		return
	}
	s.serveStatic(c)
}

func (s *Server) isAPIPath(p string) bool {
	return strings.HasPrefix(p, s.config.API.Prefix)
}

// ResolvePath はリクエストパスからテーブルのキーを作る。
// / で終わる場合は DefaultDocument を付け足す
func ResolvePath(root, requestPath string) string {
	resolved := root + requestPath
	if strings.HasSuffix(resolved, "/") {
		resolved += DefaultDocument
	}
	return resolved
}

// hasExtension は最後のパス要素に . が含まれるかを返す
func hasExtension(resolved string) bool {
	segment := resolved[strings.LastIndex(resolved, "/")+1:]
	return strings.Contains(segment, ".")
}

// serveStatic はキャッシュ済みテーブルからレスポンスを返す
func (s *Server) serveStatic(c *gin.Context) {
	resolved := ResolvePath(s.config.Assets.Root, c.Request.URL.Path)

	// /factorization は /factorization/ を経由して index.html に解決させる
	if !hasExtension(resolved) {
		target := c.Request.URL.EscapedPath() + "/"
		if c.Request.URL.RawQuery != "" {
			target += "?" + c.Request.URL.RawQuery
		}
		c.Data(http.StatusOK, string(assets.MediaTypeHTML), RedirectDocument(target))
		return
	}

	asset, found := s.table.Lookup(resolved)
	switch {
	case !found || asset.IsNotFound():
		c.Data(http.StatusNotFound, plainTextContentType, []byte(assets.NotFoundContent))
	case asset.IsError():
		c.Data(http.StatusInternalServerError, plainTextContentType, asset.Content)
	default:
		c.Data(http.StatusOK, string(asset.MediaType), asset.Content)
	}
}

// RedirectDocument は target へ移動するだけのHTML文書を返す
func RedirectDocument(target string) []byte {
	return []byte(`<!DOCTYPE html><html lang="en"><script>window.location.href="` +
		template.JSEscapeString(target) + `";</script></html>`)
}
