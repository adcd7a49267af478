package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tanmayjain06/videotube/internal/http/middleware"
	"github.com/tanmayjain06/videotube/internal/model"
)

// APIError is a handler failure translated at the handler boundary.
type APIError struct {
	Code    int
	Message string
}

// Response is a handler success. Code defaults to 200 when zero.
type Response struct {
	Code    int
	Data    any
	Message string
}

// Envelope is the uniform body returned for every request.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User) (*Response, *APIError)
type HandlerFunc func(ctx *gin.Context) (*Response, *APIError)

func writeResult(ctx *gin.Context, result *Response, apiErr *APIError) {
	if apiErr != nil {
		ctx.JSON(apiErr.Code, Envelope{
			StatusCode: apiErr.Code,
			Message:    apiErr.Message,
			Success:    false,
		})
		return
	}

	code := http.StatusOK
	message := "success"
	var data any
	if result != nil {
		if result.Code != 0 {
			code = result.Code
		}
		if result.Message != "" {
			message = result.Message
		}
		data = result.Data
	}
	ctx.JSON(code, Envelope{
		StatusCode: code,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// ResolveEndpointWithAuth injects the authenticated user and maps the handler
// result onto the response envelope.
func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, Envelope{
				StatusCode: http.StatusUnauthorized,
				Message:    "unauthorized",
				Success:    false,
			})
			return
		}

		result, apiErr := h(ctx, user)
		writeResult(ctx, result, apiErr)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		writeResult(ctx, result, apiErr)
	}
}
