// Package zep はセッションメモリAPI（Zep）の呼び出しを提供する。
//
// 検索・メモリ追加・メモリ取得の3操作について、固定のAPIパスを組み立てて
// pkg/httpclient 経由で呼び出す。レスポンスボディは解釈せずにそのまま返す。
package zep
