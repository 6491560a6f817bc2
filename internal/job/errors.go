package job

// Error はクライアントへ返却可能なコード付きエラーです。
type Error struct {
	Code    string
	Message string
	Err     error
}

// NewError はコード付きエラーを生成します。
func NewError(code, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
