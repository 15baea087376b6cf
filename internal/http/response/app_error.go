package response

// AppError 统一错误包装
type AppError struct {
	Kind    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status 对应的 HTTP 状态码
func (e *AppError) Status() int {
	return StatusForKind(e.Kind)
}

// WrapError 包装错误
func WrapError(kind string, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}
