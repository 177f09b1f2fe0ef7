package errors

// User-friendly error messages
const (
	MsgNetwork            = "Unable to reach the server. Please check your connection and try again."
	MsgCanceled           = "The request was cancelled."
	MsgUnauthorized       = "Unauthorized"
	MsgNoValidToken       = "No valid token"
	MsgSessionExpired     = "Session expired"
	MsgNotFound           = "The requested resource was not found."
	MsgHouseNotFound      = "House not found."
	MsgServiceUnavailable = "The house service is unavailable right now. Please try again in a few minutes."
	MsgRateLimited        = "Too many requests. Please wait a moment and try again."
	MsgInvalidParameters  = "The provided parameters are invalid. Please check your input and try again."
	MsgInternalError      = "Something went wrong on our end. Please try again later."

	MsgLoadHousesFailed = "Failed to load houses"
	MsgLoadHouseFailed  = "Failed to load house"
	MsgLoadModelsFailed = "Failed to load house models"
	MsgCreateFailed     = "Failed to create house"
	MsgUpdateFailed     = "Failed to update house"
	MsgDeleteFailed     = "Failed to delete house"
	MsgLoginFailed      = "Login failed"
	MsgLoadUserFailed   = "Failed to load user"
)
