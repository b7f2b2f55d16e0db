// Package account defines the uniform result value returned by every
// account-mutating workflow.
package account

// OperationResult enumerates the possible outcomes of an account operation.
type OperationResult string

const (
	ResultInvalidUserName         OperationResult = "invalid_user_name"
	ResultEmailNotConfirmed       OperationResult = "email_not_confirmed"
	ResultInvalidUserNamePassword OperationResult = "invalid_user_name_password"
	ResultSuccess                 OperationResult = "success"
	ResultFailure                 OperationResult = "failure"
	ResultInvalidUserID           OperationResult = "invalid_user_id"
	ResultPasswordsDontMatch      OperationResult = "passwords_dont_match"
)

// OperationStatus pairs an operation result with a message suitable for
// display next to the originating form. Every account workflow returns
// exactly one, chosen by its first matching precondition.
type OperationStatus struct {
	Result  OperationResult `json:"result"`
	Message string          `json:"message"`
}

// Succeeded reports whether the operation completed successfully.
func (s OperationStatus) Succeeded() bool {
	return s.Result == ResultSuccess
}
