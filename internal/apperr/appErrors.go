package apperr

import (
	"errors"
	"github.com/14kear/online_voting/vote-client/internal/entity"
	"net/http"
)

var (
	ErrPopupUnavailable    = errors.New("popup unavailable")
	ErrUserCancelled       = errors.New("user cancelled sign-in")
	ErrNetworkFailure      = errors.New("network failure")
	ErrCredentialExpired   = errors.New("credential expired")
	ErrSecondaryAuthFailed = errors.New("secondary auth failed")
	ErrAlreadyVoted        = errors.New("already voted")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")

	ErrBusy              = errors.New("another operation is in progress")
	ErrNotSignedIn       = errors.New("not signed in")
	ErrValidation        = errors.New("validation error")
	ErrInvalidTransition = errors.New("action not allowed in current state")
	ErrReadOnly          = errors.New("live data unavailable")
	ErrRedirectTimeout   = errors.New("redirect sign-in did not complete")
)

type Kind string

const (
	KindNone              Kind = ""
	KindPopupUnavailable  Kind = "popup_unavailable"
	KindUserCancelled     Kind = "user_cancelled"
	KindNetworkFailure    Kind = "network_failure"
	KindCredentialExpired Kind = "credential_expired"
	KindSecondaryAuth     Kind = "secondary_auth_failed"
	KindAlreadyVoted      Kind = "already_voted"
	KindForbidden         Kind = "forbidden"
	KindNotFound          Kind = "not_found"
	KindBusy              Kind = "busy"
	KindNotSignedIn       Kind = "not_signed_in"
	KindValidation        Kind = "validation"
	KindInvalidTransition Kind = "invalid_transition"
	KindReadOnly          Kind = "read_only"
	KindRedirectTimeout   Kind = "redirect_timeout"
	KindUnexpected        Kind = "unexpected"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	// order matters: a wrapped chain may carry more than one sentinel
	{ErrAlreadyVoted, KindAlreadyVoted},
	{ErrForbidden, KindForbidden},
	{ErrNotFound, KindNotFound},
	{ErrCredentialExpired, KindCredentialExpired},
	{ErrSecondaryAuthFailed, KindSecondaryAuth},
	{ErrPopupUnavailable, KindPopupUnavailable},
	{ErrUserCancelled, KindUserCancelled},
	{ErrNetworkFailure, KindNetworkFailure},
	{ErrBusy, KindBusy},
	{ErrNotSignedIn, KindNotSignedIn},
	{ErrValidation, KindValidation},
	{entity.ErrInvalidPoll, KindValidation},
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrReadOnly, KindReadOnly},
	{ErrRedirectTimeout, KindRedirectTimeout},
}

// KindOf classifies err against the sentinel taxonomy.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnexpected
}

// Describe turns err into the message shown to the user and the step offered next.
// User cancellation is silent and yields nil.
func Describe(err error) *entity.Notice {
	kind := KindOf(err)
	n := &entity.Notice{Kind: string(kind)}

	switch kind {
	case KindNone, KindUserCancelled:
		return nil
	case KindPopupUnavailable:
		n.Message = "No se pudo abrir la ventana de inicio de sesión. Intenta con redirección."
		n.Action = entity.ActionRedirect
	case KindNetworkFailure:
		n.Message = "Error de conexión. Verifica tu conexión a internet."
		n.Action = entity.ActionRetry
	case KindCredentialExpired:
		n.Message = "Tu sesión ha expirado. Vuelve a iniciar sesión."
		n.Action = entity.ActionReauth
	case KindSecondaryAuth:
		n.Message = "No se pudo conectar con la API de votaciones. Mostrando datos de ejemplo."
		n.Action = entity.ActionRetry
	case KindAlreadyVoted:
		n.Message = "Ya has votado en esta votación."
		n.Action = entity.ActionBack
	case KindForbidden:
		n.Message = "No tienes permisos para modificar esta votación."
		n.Action = entity.ActionBack
	case KindNotFound:
		n.Message = "La votación no está disponible."
		n.Action = entity.ActionBack
	case KindBusy:
		n.Message = "Hay una operación en curso. Espera un momento."
		n.Action = entity.ActionNone
	case KindNotSignedIn:
		n.Message = "Debes iniciar sesión para continuar."
		n.Action = entity.ActionReauth
	case KindValidation:
		n.Message = "Los datos ingresados no son válidos."
		n.Action = entity.ActionBack
	case KindInvalidTransition:
		n.Message = "Esta acción no está disponible en este momento."
		n.Action = entity.ActionBack
	case KindReadOnly:
		n.Message = "Estás viendo datos de ejemplo. Reintenta la conexión para continuar."
		n.Action = entity.ActionRetry
	case KindRedirectTimeout:
		n.Message = "El inicio de sesión no se completó. Inténtalo de nuevo."
		n.Action = entity.ActionRedirect
	default:
		n.Message = "Ocurrió un error inesperado."
		n.Action = entity.ActionRetry
	}
	return n
}

// HTTPStatus maps err onto the status used by the local HTTP surface.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNone:
		return http.StatusOK
	case KindValidation:
		return http.StatusBadRequest
	case KindNotSignedIn, KindCredentialExpired:
		return http.StatusUnauthorized
	case KindForbidden, KindReadOnly:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyVoted, KindBusy, KindInvalidTransition:
		return http.StatusConflict
	case KindPopupUnavailable, KindUserCancelled:
		return http.StatusUnprocessableEntity
	case KindRedirectTimeout:
		return http.StatusRequestTimeout
	case KindNetworkFailure, KindSecondaryAuth:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
