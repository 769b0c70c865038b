package handlerapplication

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"github.com/segmentio/encoding/json"
	"github.com/yusufsyaifudin/ylog"

	"github.com/joaop06/jcoder/internal/svc/applicationsvc"
	"github.com/joaop06/jcoder/internal/svc/componentsvc"
	"github.com/joaop06/jcoder/internal/svc/ordering"
	"github.com/joaop06/jcoder/pkg/respbuilder"
	"github.com/joaop06/jcoder/pkg/validator"
	"github.com/joaop06/jcoder/transport/restapi/httptyped"
)

type HandlerConfig struct {
	ApplicationService applicationsvc.Service `validate:"required"`
}

type Handler struct {
	Config HandlerConfig
}

func NewHandler(conf HandlerConfig) (*Handler, error) {
	err := validator.Validate(conf)
	if err != nil {
		return nil, err
	}

	return &Handler{Config: conf}, nil
}

// writeError maps service errors to the response taxonomy: incomplete or
// malformed input is a validation failure, unknown ids are not found,
// name clashes are duplicates, bad reorder targets are out of range.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	switch {
	case errors.Is(err, applicationsvc.ErrNotFound),
		errors.Is(err, applicationsvc.ErrUserNotFound):
		resp := respbuilder.Error(ctx, respbuilder.ErrResourceNotFound, err)
		respbuilder.WriteJSON(http.StatusNotFound, w, r, resp)

	case errors.Is(err, applicationsvc.ErrAlreadyExists):
		resp := respbuilder.Error(ctx, respbuilder.ErrDuplicateEntries, err)
		respbuilder.WriteJSON(http.StatusConflict, w, r, resp)

	case errors.Is(err, ordering.ErrOutOfBounds):
		resp := respbuilder.Error(ctx, respbuilder.ErrOutOfRange, err)
		respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)

	case errors.Is(err, applicationsvc.ErrValidation),
		errors.Is(err, componentsvc.ErrValidation),
		errors.Is(err, componentsvc.ErrUnknownApplicationType),
		errors.Is(err, componentsvc.ErrAssociatedAPIInvalid),
		errors.Is(err, componentsvc.ErrRequiredApiComponent),
		errors.Is(err, componentsvc.ErrRequiredMobileComponent),
		errors.Is(err, componentsvc.ErrRequiredLibraryComponent),
		errors.Is(err, componentsvc.ErrRequiredFrontendComponent),
		errors.Is(err, componentsvc.ErrRequiredApiAndFrontendComponents):
		resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
		respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)

	default:
		resp := respbuilder.Error(ctx, respbuilder.ErrUnhandled, err)
		respbuilder.WriteJSON(http.StatusInternalServerError, w, r, resp)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("path param '%s' must be a positive integer, got '%s'", name, raw)
	}

	return id, nil
}

type ApiPayloadReq struct {
	Domain              string `json:"domain"`
	ApiURL              string `json:"api_url"`
	DocumentationURL    string `json:"documentation_url"`
	HealthCheckEndpoint string `json:"health_check_endpoint"`
}

type MobilePayloadReq struct {
	Platform        string `json:"platform"`
	DownloadURL     string `json:"download_url"`
	AssociatedApiID int64  `json:"associated_api_id"`
}

type LibraryPayloadReq struct {
	PackageManagerURL string `json:"package_manager_url"`
	ReadmeContent     string `json:"readme_content"`
}

type FrontendPayloadReq struct {
	FrontendURL     string `json:"frontend_url"`
	ScreenshotURL   string `json:"screenshot_url"`
	AssociatedApiID int64  `json:"associated_api_id"`
}

type ApplicationReq struct {
	OwnerUserID     int64               `json:"owner_user_id"`
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	ApplicationType string              `json:"application_type"`
	GithubURL       string              `json:"github_url"`
	IsActive        bool                `json:"is_active"`
	Images          []string            `json:"images"`
	Api             *ApiPayloadReq      `json:"api"`
	Mobile          *MobilePayloadReq   `json:"mobile"`
	Library         *LibraryPayloadReq  `json:"library"`
	Frontend        *FrontendPayloadReq `json:"frontend"`
}

func (req ApplicationReq) payloads() componentsvc.Payloads {
	payloads := componentsvc.Payloads{}

	if req.Api != nil {
		payloads.Api = &componentsvc.ApiPayload{
			Domain:              req.Api.Domain,
			ApiURL:              req.Api.ApiURL,
			DocumentationURL:    req.Api.DocumentationURL,
			HealthCheckEndpoint: req.Api.HealthCheckEndpoint,
		}
	}

	if req.Mobile != nil {
		payloads.Mobile = &componentsvc.MobilePayload{
			Platform:        req.Mobile.Platform,
			DownloadURL:     req.Mobile.DownloadURL,
			AssociatedApiID: req.Mobile.AssociatedApiID,
		}
	}

	if req.Library != nil {
		payloads.Library = &componentsvc.LibraryPayload{
			PackageManagerURL: req.Library.PackageManagerURL,
			ReadmeContent:     req.Library.ReadmeContent,
		}
	}

	if req.Frontend != nil {
		payloads.Frontend = &componentsvc.FrontendPayload{
			FrontendURL:     req.Frontend.FrontendURL,
			ScreenshotURL:   req.Frontend.ScreenshotURL,
			AssociatedApiID: req.Frontend.AssociatedApiID,
		}
	}

	return payloads
}

type ApplicationResp struct {
	Application httptyped.ApplicationEntity `json:"application"`
}

// CreateApplication registers a new typed application with its components.
// Path         : POST /api/v1/applications
// Request Body : ApplicationReq
// Response     : ApplicationResp
func (h *Handler) CreateApplication() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if r.Body == nil {
			err := fmt.Errorf("request body is nil")
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		defer func() {
			if _err := r.Body.Close(); _err != nil {
				ylog.Error(ctx, "cannot close request body", ylog.KV("error", _err))
			}
		}()

		var reqBody ApplicationReq
		dec := json.NewDecoder(r.Body)
		err := dec.Decode(&reqBody)
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		createOut, err := h.Config.ApplicationService.CreateApplication(ctx, applicationsvc.InputCreateApplication{
			OwnerUserID:     reqBody.OwnerUserID,
			Name:            reqBody.Name,
			Description:     reqBody.Description,
			ApplicationType: reqBody.ApplicationType,
			GithubURL:       reqBody.GithubURL,
			IsActive:        reqBody.IsActive,
			Images:          reqBody.Images,
			Payloads:        reqBody.payloads(),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		respBody := ApplicationResp{
			Application: httptyped.ApplicationEntityFromSvc(createOut.Application),
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusCreated, w, r, resp)
	}

	return handler
}

type ListApplicationsReq struct {
	OwnerUserID int64 `schema:"owner_user_id"`
	Limit       int   `schema:"limit"`
	Offset      int   `schema:"offset"`
}

type ListApplicationsResp struct {
	Total int                           `json:"total"`
	Items []httptyped.ApplicationEntity `json:"items"`
}

// ListApplications lists one owner's applications ordered by display order.
// Path          : GET /api/v1/applications
// Request Query : ListApplicationsReq
// Response      : ListApplicationsResp
func (h *Handler) ListApplications() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		err := r.ParseForm()
		if err != nil {
			err = fmt.Errorf("failed parse form: %w", err)
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		query := ListApplicationsReq{}
		queryDec := schema.NewDecoder()
		err = queryDec.Decode(&query, r.Form)
		if err != nil {
			err = fmt.Errorf("failed decode query params: %w", err)
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		listOut, err := h.Config.ApplicationService.ListApplications(ctx, applicationsvc.InputListApplications{
			OwnerUserID: query.OwnerUserID,
			Limit:       query.Limit,
			Offset:      query.Offset,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		items := make([]httptyped.ApplicationEntity, 0, len(listOut.Applications))
		for _, app := range listOut.Applications {
			items = append(items, httptyped.ApplicationEntityFromSvc(app))
		}

		respBody := ListApplicationsResp{
			Total: listOut.Total,
			Items: items,
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}

// GetByID fetches one application with its components.
// Path     : GET /api/v1/applications/{id}
// Response : ApplicationResp
func (h *Handler) GetByID() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "id")
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		getOut, err := h.Config.ApplicationService.GetApplication(ctx, applicationsvc.InputGetApplication{
			ID: id,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		respBody := ApplicationResp{
			Application: httptyped.ApplicationEntityFromSvc(getOut.Application),
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}

// PutApplication replaces every field of an application, its type included.
// The request must carry the full component payload for the (new) type.
// Path         : PUT /api/v1/applications/{id}
// Request Body : ApplicationReq (owner_user_id is ignored, ownership never moves)
// Response     : ApplicationResp
func (h *Handler) PutApplication() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "id")
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		if r.Body == nil {
			err = fmt.Errorf("request body is nil")
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		defer func() {
			if _err := r.Body.Close(); _err != nil {
				ylog.Error(ctx, "cannot close request body", ylog.KV("error", _err))
			}
		}()

		var reqBody ApplicationReq
		dec := json.NewDecoder(r.Body)
		err = dec.Decode(&reqBody)
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		updateOut, err := h.Config.ApplicationService.UpdateApplication(ctx, applicationsvc.InputUpdateApplication{
			ID:              id,
			Name:            reqBody.Name,
			Description:     reqBody.Description,
			ApplicationType: reqBody.ApplicationType,
			GithubURL:       reqBody.GithubURL,
			IsActive:        reqBody.IsActive,
			Images:          reqBody.Images,
			Payloads:        reqBody.payloads(),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		respBody := ApplicationResp{
			Application: httptyped.ApplicationEntityFromSvc(updateOut.Application),
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}

type DeleteApplicationResp struct {
	Success        bool `json:"success"`
	AlreadyDeleted bool `json:"already_deleted"`
}

// DeleteByID soft deletes one application and compacts the owner's ordering.
// Deleting an id that is already gone succeeds.
// Path     : DELETE /api/v1/applications/{id}
// Response : DeleteApplicationResp
func (h *Handler) DeleteByID() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "id")
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		delOut, err := h.Config.ApplicationService.DeleteApplication(ctx, applicationsvc.InputDeleteApplication{
			ID: id,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		respBody := DeleteApplicationResp{
			Success:        true,
			AlreadyDeleted: delOut.AlreadyDeleted,
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}

type PutDisplayOrderReq struct {
	DisplayOrder int `json:"display_order"`
}

// PutDisplayOrder moves one application to a new position in its owner's
// list. The target must be within [1, N].
// Path         : PUT /api/v1/applications/{id}/display-order
// Request Body : PutDisplayOrderReq
// Response     : ApplicationResp
func (h *Handler) PutDisplayOrder() func(http.ResponseWriter, *http.Request) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := pathID(r, "id")
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		if r.Body == nil {
			err = fmt.Errorf("request body is nil")
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		defer func() {
			if _err := r.Body.Close(); _err != nil {
				ylog.Error(ctx, "cannot close request body", ylog.KV("error", _err))
			}
		}()

		var reqBody PutDisplayOrderReq
		dec := json.NewDecoder(r.Body)
		err = dec.Decode(&reqBody)
		if err != nil {
			resp := respbuilder.Error(ctx, respbuilder.ErrValidation, err)
			respbuilder.WriteJSON(http.StatusBadRequest, w, r, resp)
			return
		}

		reorderOut, err := h.Config.ApplicationService.ReorderApplication(ctx, applicationsvc.InputReorderApplication{
			ID:           id,
			DisplayOrder: reqBody.DisplayOrder,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		respBody := ApplicationResp{
			Application: httptyped.ApplicationEntityFromSvc(reorderOut.Application),
		}

		resp := respbuilder.Success(ctx, respBody)
		respbuilder.WriteJSON(http.StatusOK, w, r, resp)
	}

	return handler
}
