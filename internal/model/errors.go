package model

import "net/http"

// APIError はHTTPステータスコード付きのドメインエラーを表す。
// サービス層で生成され、ハンドラー層の単一の正規化ポイントで
// {"error": <message>} 形式のレスポンスに変換される。
type APIError struct {
	StatusCode int
	Message    string
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return e.Message
}

// NewValidationError は400 Bad Requestのエラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Message: message}
}

// NewUnauthorizedError は401 Unauthorizedのエラーを生成する。
func NewUnauthorizedError(message string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Message: message}
}

// NewNotFoundError は404 Not Foundのエラーを生成する。
func NewNotFoundError(message string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Message: message}
}

// NewConflictError は409 Conflictのエラーを生成する。
func NewConflictError(message string) *APIError {
	return &APIError{StatusCode: http.StatusConflict, Message: message}
}

// NewParametersMissingError はリクエスト必須項目の欠落エラーを生成する。
func NewParametersMissingError() *APIError {
	return NewValidationError("Parameters missing")
}

// NewUsernameTakenError はユーザー名重複エラーを生成する。
func NewUsernameTakenError() *APIError {
	return NewConflictError("Username already taken. Please choose a different one or log in instead.")
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return NewConflictError("A user with this email address already exists. Please log in instead.")
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// ユーザー列挙攻撃を防ぐため、ユーザー不在とパスワード不一致で同一メッセージを返す。
func NewInvalidCredentialsError() *APIError {
	return NewUnauthorizedError("Invalid credentials")
}

// NewNotAuthenticatedError はセッション不在のエラーを生成する。
func NewNotAuthenticatedError() *APIError {
	return NewUnauthorizedError("User not authenticated")
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return NewNotFoundError("User not found")
}

// NewArticleNotFoundError は記事未検出エラーを生成する。
func NewArticleNotFoundError() *APIError {
	return NewNotFoundError("Article not found")
}

// NewTitleContentRequiredError は記事作成時の必須項目エラーを生成する。
func NewTitleContentRequiredError() *APIError {
	return NewValidationError("Title and content are required")
}

// NewUpdateFieldsRequiredError は記事更新時に更新項目が皆無のエラーを生成する。
func NewUpdateFieldsRequiredError() *APIError {
	return NewValidationError("At least one of title or content must be provided")
}

// NewNoImagesError は画像未添付の一括アップロードエラーを生成する。
func NewNoImagesError() *APIError {
	return NewValidationError("No images provided")
}

// NewTooManyImagesError は一括アップロードの上限超過エラーを生成する。
func NewTooManyImagesError() *APIError {
	return NewValidationError("You can only upload up to 5 images at once")
}

// NewInvalidImageTypeError は画像以外のファイル種別のエラーを生成する。
func NewInvalidImageTypeError() *APIError {
	return NewValidationError("Only image files are allowed")
}

// NewEndpointNotFoundError は未定義ルートのエラーを生成する。
func NewEndpointNotFoundError() *APIError {
	return NewNotFoundError("Endpoint not found")
}
