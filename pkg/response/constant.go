package response

const (
	MessageSuccess          = "Success"
	DefaultErrorMessage     = "Something went wrong"
	InternalServerErrorCode = 500

	TextNotFound         = "Not Found"
	TextMethodNotAllowed = "Method Not Allowed"
	TextTooManyRequests  = "Too Many Requests"
)
