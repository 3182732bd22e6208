package response

// Body 统一响应包：成功 {success:true, data|message}，失败 {success:false, message, errors?}
type Body struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func OK(data any) Body {
	return Body{Success: true, Data: data}
}

func Message(msg string) Body {
	return Body{Success: true, Message: msg}
}

func Fail(msg string) Body {
	return Body{Success: false, Message: msg}
}

func FailFields(msg string, fields map[string]string) Body {
	return Body{Success: false, Message: msg, Errors: fields}
}
