// apierrors стандартизирует ответы об ошибках HTTP-слоя:
// доменная ошибка -> gRPC-статус -> HTTP-статус и JSON-конверт
// {"error":{"code","message","request_id"}} без утечки деталей.
package apierrors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/infomonitor/internal/service"
	"github.com/pribylovaa/infomonitor/internal/session"
	"github.com/pribylovaa/infomonitor/internal/storage"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StatusClientClosedRequest — нестандартный код «клиент закрыл соединение».
const StatusClientClosedRequest = 499

// APIError — единый формат ошибки для клиентов.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект ответа.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// FromDomain переводит доменную ошибку в gRPC-статус:
//   - service.ErrInvalidArgument (в т.ч. неизвестная категория) -> InvalidArgument;
//   - session.ErrNoSession, storage.ErrNotFound -> NotFound;
//   - storage.ErrAlreadyExists -> AlreadyExists;
//   - отмена/дедлайн контекста -> Canceled/DeadlineExceeded;
//   - уже gRPC-статус -> как есть; прочее -> Internal.
func FromDomain(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, service.ErrUnknownCategory):
		return status.Error(codes.InvalidArgument, "unknown category")
	case errors.Is(err, service.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, "invalid argument")
	case errors.Is(err, session.ErrNoSession):
		return status.Error(codes.NotFound, "no active session")
	case errors.Is(err, storage.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, storage.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	return status.Error(codes.Internal, "internal error")
}

// ToHTTP конвертирует ошибку в HTTP-статус и конверт ответа.
// nil и ошибки без gRPC-статуса -> 500/internal: "200 OK" с телом ошибки не отправляется.
func ToHTTP(err error) (int, ErrorResponse) {
	st, ok := status.FromError(err)
	if err == nil || !ok {
		return http.StatusInternalServerError, ErrorResponse{Error: APIError{Code: "internal", Message: "internal error"}}
	}

	httpStatus, code, msg := baseFromGRPC(st.Code())
	if st.Code() == codes.InvalidArgument && st.Message() != "" {
		msg = st.Message()
	}

	return httpStatus, ErrorResponse{Error: APIError{Code: code, Message: msg}}
}

// WriteError пишет статус и тело ошибки; request_id берётся из X-Request-Id.
// Доменные ошибки переводятся через FromDomain.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code, resp := ToHTTP(FromDomain(err))

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

func baseFromGRPC(c codes.Code) (int, string, string) {
	switch c {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case codes.NotFound:
		return http.StatusNotFound, "not_found", "not found"
	case codes.AlreadyExists:
		return http.StatusConflict, "already_exists", "already exists"
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests, "resource_exhausted", "resource exhausted"
	case codes.Canceled:
		return StatusClientClosedRequest, "canceled", "canceled"
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	case codes.Unavailable:
		return http.StatusServiceUnavailable, "unavailable", "service unavailable"
	case codes.Unimplemented:
		return http.StatusNotImplemented, "unimplemented", "unimplemented"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
