package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// QueryArgs はAPIリクエストのクエリ引数。同じキーは後勝ち
type QueryArgs map[string]string

// Get はキーの値と存在有無を返す
func (q QueryArgs) Get(key string) (string, bool) {
	value, ok := q[key]
	return value, ok
}

// APIRequest はボディを読み終えたAPIリクエスト
type APIRequest struct {
	Method   string
	Resource string // 末尾が / に正規化されたパス (例: /api/primes/)
	Args     QueryArgs
	Body     []byte
}

// APIHandler は登録されたリソースを処理する
type APIHandler func(c *gin.Context, req *APIRequest)

// RegisterAPI は resource (API_PREFIXを含むパス) のハンドラを登録する。
// Handler や Start の後には呼べない
func (s *Server) RegisterAPI(resource string, handler APIHandler) {
	if s.engine != nil {
		panic("server: RegisterAPI called after routes were set up")
	}
	s.api[NormalizeResource(resource)] = handler
}

// NormalizeResource はリソースのパスを / 終端にする
func NormalizeResource(resource string) string {
	if !strings.HasSuffix(resource, "/") {
		resource += "/"
	}
	return resource
}

// ParseQueryArgs は生のクエリ文字列を & と = で分割する。
// キーと値はパーセントデコードし、デコードできない場合は元の文字列のまま使う
func ParseQueryArgs(rawQuery string) QueryArgs {
	args := make(QueryArgs)
	if rawQuery == "" {
		return args
	}

	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		args[unescape(key)] = unescape(value)
	}
	return args
}

func unescape(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// handleAPI はボディを上限付きで読み込み、登録済みリソースへディスパッチする
func (s *Server) handleAPI(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.config.API.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "payload_too_large",
				fmt.Sprintf("リクエストボディが上限 %d バイトを超えています", tooLarge.Limit), nil)
			return
		}
		respondError(c, http.StatusBadRequest, "bad_request", "リクエストボディの読み込みに失敗しました", nil)
		return
	}

	req := &APIRequest{
		Method:   c.Request.Method,
		Resource: NormalizeResource(c.Request.URL.Path),
		Args:     ParseQueryArgs(c.Request.URL.RawQuery),
		Body:     body,
	}

	handler, ok := s.api[req.Resource]
	if !ok {
		respondError(c, http.StatusNotImplemented, "not_implemented",
			"指定されたAPIリソースは未実装です", stringPtr(req.Resource))
		return
	}

	handler(c, req)

	// 何も書かなかったハンドラでもレスポンスは必ず終える
	if !c.Writer.Written() {
		c.Status(http.StatusNoContent)
		c.Writer.WriteHeaderNow()
	}
}
