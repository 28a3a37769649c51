package response

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope shared by every endpoint. Errors always carry
// {status, message}; success payloads embed it and add their own fields.
type Response struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

func OK(message string) Response {
	return Response{Message: message}
}

func Error(message string) Response {
	return Response{
		Status:  StatusError,
		Message: message,
	}
}
