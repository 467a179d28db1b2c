// Package assets は起動時に静的アセットをメモリへ読み込む。
//
// 責務:
//   - 宣言されたアセットツリー（ディレクトリと葉）の走査
//   - 拡張子からのメディアタイプ判定
//   - 読み込み結果を不変のテーブルとして提供
//
// 仕様:
//   - 構築は起動時に一度だけ行い、以後テーブルは変更されない
//   - 存在しないアセットはエラーではなく番兵エントリとしてキャッシュする
//   - それ以外の読み込み失敗は Build がエラーを返し、起動を中止させる
package assets
