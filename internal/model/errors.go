// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, project, subscription, mail, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeProjectNotFound      = "PROJECT_NOT_FOUND"
	ErrCodeChatNotFound         = "CHAT_NOT_FOUND"
	ErrCodeIssueNotFound        = "ISSUE_NOT_FOUND"
	ErrCodeInvitationNotFound   = "INVITATION_NOT_FOUND"
	ErrCodeSubscriptionNotFound = "SUBSCRIPTION_NOT_FOUND"
	ErrCodeInvitationConsumed   = "INVITATION_ALREADY_USED"
	ErrCodeNotProjectOwner      = "NOT_PROJECT_OWNER"
	ErrCodeNotChatMember        = "NOT_CHAT_MEMBER"
	ErrCodeDeliveryFailed       = "DELIVERY_FAILED"
	ErrCodeDuplicateEmail       = "DUPLICATE_EMAIL"
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeInvalidPlanType      = "INVALID_PLAN_TYPE"
)

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewProjectNotFoundError はプロジェクトが見つからない場合のエラーを生成する。
func NewProjectNotFoundError(projectID string) *APIError {
	return &APIError{
		Code:     ErrCodeProjectNotFound,
		Message:  fmt.Sprintf("指定されたプロジェクトが見つかりません: %s", projectID),
		Category: "project",
		Action:   "プロジェクトIDを確認してください。",
	}
}

// NewChatNotFoundError はチャットが見つからない場合のエラーを生成する。
func NewChatNotFoundError(chatID string) *APIError {
	return &APIError{
		Code:     ErrCodeChatNotFound,
		Message:  fmt.Sprintf("指定されたチャットが見つかりません: %s", chatID),
		Category: "project",
		Action:   "チャットIDを確認してください。",
	}
}

// NewIssueNotFoundError は課題が見つからない場合のエラーを生成する。
func NewIssueNotFoundError(issueID string) *APIError {
	return &APIError{
		Code:     ErrCodeIssueNotFound,
		Message:  fmt.Sprintf("指定された課題が見つかりません: %s", issueID),
		Category: "project",
		Action:   "課題IDを確認してください。",
	}
}

// NewInvitationNotFoundError は招待トークンが解決できない場合のエラーを生成する。
// トークンが存在しない場合と、消費済み（1回限り）の場合の両方で返る。
func NewInvitationNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeInvitationNotFound,
		Message:  "招待が見つかりません。トークンが無効か、既に使用されています。",
		Category: "project",
		Action:   "プロジェクトのオーナーに招待の再送を依頼してください。",
	}
}

// NewSubscriptionNotFoundError はサブスクリプションが見つからない場合のエラーを生成する。
// サブスクリプションはユーザー作成時にのみ作成されるため、欠損は致命的な
// 参照エラーとして呼び出し元に伝搬し、FREEとして捏造してはならない。
func NewSubscriptionNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeSubscriptionNotFound,
		Message:  fmt.Sprintf("指定されたユーザーのサブスクリプションが見つかりません: %s", userID),
		Category: "subscription",
		Action:   "サポートに問い合わせてください。",
	}
}

// NewNotProjectOwnerError は非オーナーによる操作を拒否するエラーを生成する。
func NewNotProjectOwnerError() *APIError {
	return &APIError{
		Code:     ErrCodeNotProjectOwner,
		Message:  "この操作はプロジェクトのオーナーのみ実行できます。",
		Category: "auth",
		Action:   "プロジェクトのオーナーに依頼してください。",
	}
}

// NewNotChatMemberError は非メンバーによるチャット操作を拒否するエラーを生成する。
func NewNotChatMemberError() *APIError {
	return &APIError{
		Code:     ErrCodeNotChatMember,
		Message:  "このチャットのメンバーではありません。",
		Category: "auth",
		Action:   "プロジェクトに参加してからお試しください。",
	}
}

// NewDeliveryFailedError は招待メールの送信失敗エラーを生成する。
func NewDeliveryFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeDeliveryFailed,
		Message:  fmt.Sprintf("招待メールの送信に失敗しました: %s", reason),
		Category: "mail",
		Action:   "宛先メールアドレスを確認し、しばらく待ってから再度お試しください。",
	}
}

// NewDuplicateEmailError は登録済みメールアドレスでのサインアップエラーを生成する。
func NewDuplicateEmailError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "auth",
		Action:   "別のメールアドレスを使用するか、サインインしてください。",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// メールアドレスの存在有無を漏らさないよう、原因は区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewInvalidPlanTypeError は未知のプラン種別エラーを生成する。
func NewInvalidPlanTypeError(planType string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPlanType,
		Message:  fmt.Sprintf("無効なプラン種別です: %s", planType),
		Category: "validation",
		Action:   "planTypeには FREE、MONTHLY、ANNUALLY のいずれかを指定してください。",
	}
}
