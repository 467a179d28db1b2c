// Package server は、起動時にキャッシュしたアセットをHTTPで配信します。
//
// このパッケージは、HTTPサーバーの起動、リクエストのルーティング、
// キャッシュ済みアセットからのレスポンス解決を担当します。
//
// 責務:
//   - HTTPサーバーの起動と管理
//   - 予約済みAPI名前空間へのディスパッチ（未登録のリソースは501）
//   - 静的パスの解決（ディレクトリ形式はindex.html、拡張子なしはクライアント側リダイレクト）
//   - キャッシュの番兵エントリからステータスコードへの変換（404/500）
//   - リクエスト毎のログ出力とパニックからの復旧
//
// 仕様:
//   - ルーティングにはgin-gonic/ginを使用
//   - アセットテーブルは起動前に構築され、以後は読み取り専用
//   - グレースフルシャットダウンに対応
package server
