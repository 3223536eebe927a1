package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/rs/zerolog"

	"github.com/perkhive/admin-management-api/services/admin-service/internal/usecase"
)

// ConfirmEmailPath is exempt from API authentication: the caller proves
// control of the mailbox through the code itself.
const ConfirmEmailPath = "/api/admins/confirm-email"

// AdminHTTPHandler exposes the admin management API over HTTP. It only
// converts payloads, delegates to the usecases and maps errors; no business
// rules live here.
type AdminHTTPHandler struct {
	adminUsecase    usecase.AdminUserUsecase
	autofillUsecase usecase.AutofillUsecase
	validate        *validator.Validate
	translator      ut.Translator
	logger          *zerolog.Logger
}

// NewAdminHTTPHandler creates a new AdminHTTPHandler instance.
func NewAdminHTTPHandler(
	adminUsecase usecase.AdminUserUsecase,
	autofillUsecase usecase.AutofillUsecase,
	logger *zerolog.Logger,
) *AdminHTTPHandler {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	translator, _ := uni.GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(validate, translator)

	return &AdminHTTPHandler{
		adminUsecase:    adminUsecase,
		autofillUsecase: autofillUsecase,
		validate:        validate,
		translator:      translator,
		logger:          logger,
	}
}

// RegisterRoutes mounts the admin API on the router.
func (h *AdminHTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/admins", func(r chi.Router) {
		r.Get("/autofill-values", h.getAutofillValues)
		r.Post("/register", h.register)
		r.Post("/confirm-email", h.confirmEmail)
		r.Post("/update", h.update)
		r.Post("/update-permissions", h.updatePermissions)
		r.Get("/", h.getAll)
		r.Post("/paginated", h.getPaginated)
		r.Post("/get-by-email", h.getByEmail)
		r.Post("/get-by-id", h.getByID)
		r.Post("/get-permissions", h.getPermissions)
		r.Post("/reset-password", h.resetPassword)
	})
}

func (h *AdminHTTPHandler) getAutofillValues(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.autofillUsecase.GetAll(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAutofillValuesResponse(suggestions))
}

func (h *AdminHTTPHandler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	admin, err := h.adminUsecase.Register(r.Context(), toRegisterParams(req))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAdminUserResponse(admin))
}

func (h *AdminHTTPHandler) confirmEmail(w http.ResponseWriter, r *http.Request) {
	var req ConfirmEmailRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.adminUsecase.ConfirmEmail(r.Context(), req.VerificationCode)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toConfirmEmailResponse(result))
}

func (h *AdminHTTPHandler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateAdminRequest
	if !h.decode(w, r, &req) {
		return
	}

	admin, err := h.adminUsecase.UpdateProfile(r.Context(), req.AdminUserID, toUpdateProfileParams(req))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAdminUserResponse(admin))
}

func (h *AdminHTTPHandler) updatePermissions(w http.ResponseWriter, r *http.Request) {
	var req UpdatePermissionsRequest
	if !h.decode(w, r, &req) {
		return
	}

	admin, err := h.adminUsecase.UpdatePermissions(r.Context(), req.AdminUserID, stringsToPermissions(req.Permissions))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAdminUserResponse(admin))
}

func (h *AdminHTTPHandler) getAll(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	admins, err := h.adminUsecase.GetAll(r.Context(), activeOnly)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAdminUserResponses(admins))
}

func (h *AdminHTTPHandler) getPaginated(w http.ResponseWriter, r *http.Request) {
	var req PaginationRequest
	if !h.decode(w, r, &req) {
		return
	}

	page, err := h.adminUsecase.GetPaginated(r.Context(), req.CurrentPage, req.PageSize, req.ActiveOnly)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, PaginatedAdminUsersResponse{
		Items:       toAdminUserResponses(page.Items),
		CurrentPage: page.CurrentPage,
		PageSize:    page.PageSize,
		TotalCount:  page.TotalCount,
	})
}

func (h *AdminHTTPHandler) getByEmail(w http.ResponseWriter, r *http.Request) {
	var req GetByEmailRequest
	if !h.decode(w, r, &req) {
		return
	}

	admin, err := h.adminUsecase.GetByEmail(r.Context(), req.Email, req.ActiveOnly)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAdminUserResponse(admin))
}

func (h *AdminHTTPHandler) getByID(w http.ResponseWriter, r *http.Request) {
	var req GetByIDRequest
	if !h.decode(w, r, &req) {
		return
	}

	admin, err := h.adminUsecase.GetByID(r.Context(), req.AdminUserID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAdminUserResponse(admin))
}

func (h *AdminHTTPHandler) getPermissions(w http.ResponseWriter, r *http.Request) {
	var req GetByIDRequest
	if !h.decode(w, r, &req) {
		return
	}

	perms, err := h.adminUsecase.GetPermissions(r.Context(), req.AdminUserID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, permissionsToStrings(perms))
}

func (h *AdminHTTPHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	admin, err := h.adminUsecase.ResetPassword(r.Context(), req.AdminUserID, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toAdminUserResponse(admin))
}

// decode parses and validates the request body, writing the error response
// itself when the payload is malformed.
func (h *AdminHTTPHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed request body"})
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			messages := make([]string, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				messages = append(messages, fieldErr.Translate(h.translator))
			}
			h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: strings.Join(messages, "; ")})
			return false
		}

		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
		return false
	}

	return true
}

func (h *AdminHTTPHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidArgument):
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrAdminNotFound):
		h.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrDuplicateEmail):
		h.writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		h.logger.Error().Err(err).Msg("admin API request failed")
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "something went wrong"})
	}
}

func (h *AdminHTTPHandler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response body")
	}
}
