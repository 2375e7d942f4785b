package httpx

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/nippo-cloud/nippo/internal/authz"
	"github.com/nippo-cloud/nippo/internal/shared"
)

// RespondError maps domain errors to the error envelope. Policy denies
// keep their code and message verbatim: UNAUTHORIZED maps to 401 and
// FORBIDDEN to 403, never the other way around. Handlers that want a
// resource-specific *_NOT_FOUND code translate shared.ErrNotFound
// themselves before falling back here.
func RespondError(w http.ResponseWriter, err error) {
	var policyErr *authz.Error
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &policyErr):
		status := http.StatusForbidden
		if policyErr.Code == authz.CodeUnauthorized {
			status = http.StatusUnauthorized
		}
		Error(w, status, string(policyErr.Code), policyErr.Message)
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, "NOT_FOUND", "リソースが見つかりません")
	case errors.Is(err, shared.ErrAlreadyExists):
		Error(w, http.StatusConflict, "CONFLICT", "すでに登録されています")
	case errors.Is(err, shared.ErrInUse):
		Error(w, http.StatusConflict, "CONFLICT", "関連するデータが存在するため削除できません")
	case errors.Is(err, shared.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "メールアドレスまたはパスワードが正しくありません")
	case errors.Is(err, shared.ErrInvalidInput):
		Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "入力内容に誤りがあります")
	case errors.As(err, &validationErrs):
		Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "入力内容に誤りがあります")
	default:
		Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "内部エラーが発生しました")
	}
}
