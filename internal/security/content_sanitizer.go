// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService は記事のタイトル・本文を保存前にサニタイズし、
// XSS攻撃などのセキュリティリスクからユーザーを保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 安全なタグのみを通過させる。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService は記事コンテンツのサニタイズ機能のインターフェースを定義する。
// 記事の作成・更新時、永続化の前に使用される。
type ContentSanitizerService interface {
	// SanitizeTitle はタイトルから全てのHTMLタグを除去しプレーンテキストを返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeTitle(raw string) string

	// SanitizeContent は本文をサニタイズして安全なHTMLを返す。
	// 許可タグ（p, br, ul, ol, li, blockquote, pre, code, strong, em）のみを通過させ、
	// script, iframe, styleタグおよびon*イベント属性を除去する。
	// aタグにはhref属性のみ許可し、rel="noopener noreferrer"が自動付与される。
	SanitizeContent(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	titlePolicy   *bluemonday.Policy
	contentPolicy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// タイトル用には全タグを除去するStrictポリシー、本文用には許可リストポリシーを構築する。
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()

	// 本文の許可タグ（属性なしのシンプルなタグ）。
	// script, iframe, style等は許可リストに含めないことで自動的に除去される。
	// on*イベント属性はbluemondayのデフォルトで許可されないため除去される。
	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em",
	)

	// aタグはhref属性のみ許可し、リンク先の安全性を強制する
	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.RequireNoReferrerOnLinks(true)
	p.AllowURLSchemes("https")

	return &contentSanitizer{
		titlePolicy:   bluemonday.StrictPolicy(),
		contentPolicy: p,
	}
}

// SanitizeTitle はタイトルから全てのHTMLタグを除去する。
func (s *contentSanitizer) SanitizeTitle(raw string) string {
	return s.titlePolicy.Sanitize(raw)
}

// SanitizeContent は本文をサニタイズして安全なHTMLを返す。
func (s *contentSanitizer) SanitizeContent(raw string) string {
	return s.contentPolicy.Sanitize(raw)
}
