package httputil

import (
	"encoding/json"

	"github.com/valyala/fasthttp"

	pkgerrors "github.com/royak47/autofor/pkg/errors"
)

// MessageResponse is the body shape shared by all API replies that carry text
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes data as JSON with the given status
func WriteJSON(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	writeJSON(ctx, data, status)
}

// WriteMessage writes a {"message": ...} body with the given status
func WriteMessage(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, MessageResponse{Message: message}, status)
}

// WriteError maps err through the mapper and writes a {"message": ...} body
func WriteError(ctx *fasthttp.RequestCtx, mapper *pkgerrors.Mapper, err error) {
	status, message := mapper.MapErrorToHTTP(err)
	WriteMessage(ctx, status, message)
}

// DecodeJSON unmarshals the request body into dst
func DecodeJSON(ctx *fasthttp.RequestCtx, dst interface{}) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return pkgerrors.NewValidationError("request body is required")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return pkgerrors.NewValidationError("invalid request body")
	}
	return nil
}

// writeJSON writes JSON response to context
func writeJSON(ctx *fasthttp.RequestCtx, data interface{}, status int) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)

	body, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBody([]byte(`{"message":"failed to marshal response"}`))
		return
	}

	ctx.SetBody(body)
}

// WriteHealthResponse writes a health check response
func WriteHealthResponse(ctx *fasthttp.RequestCtx, data interface{}, healthy bool) {
	status := fasthttp.StatusOK
	if !healthy {
		status = fasthttp.StatusServiceUnavailable
	}
	writeJSON(ctx, data, status)
}
