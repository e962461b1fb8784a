package testutil

import (
	"net/http"

	id "wasl/pkg/domain"
	"wasl/pkg/requestcontext"
)

// WithOperator puts operatorID in the request context the way the auth
// middleware does for a valid bearer token.
func WithOperator(req *http.Request, operatorID id.OperatorID) *http.Request {
	return req.WithContext(requestcontext.WithOperatorID(req.Context(), operatorID))
}

// WithRequestID sets the request id normally assigned by the metadata middleware.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
