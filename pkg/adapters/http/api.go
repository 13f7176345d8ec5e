package http

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/aretw0/ticketchat/pkg/domain"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var rawSpec []byte

var (
	swaggerOnce sync.Once
	swagger     *openapi3.T
	swaggerErr  error
)

// GetSwagger returns the parsed and validated API description.
func GetSwagger() (*openapi3.T, error) {
	swaggerOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(rawSpec)
		if err != nil {
			swaggerErr = fmt.Errorf("error loading spec: %w", err)
			return
		}
		if err := doc.Validate(loader.Context); err != nil {
			swaggerErr = fmt.Errorf("invalid spec: %w", err)
			return
		}
		swagger = doc
	})
	return swagger, swaggerErr
}

// TurnRequest is the body of POST /v1/turn.
type TurnRequest struct {
	History   []domain.Message `json:"history,omitempty"`
	Message   string           `json:"message"`
	SessionID string           `json:"session_id,omitempty"`
}

// TurnResponse is the body returned by POST /v1/turn.
type TurnResponse struct {
	History []domain.Message `json:"history"`
	Replies []domain.Message `json:"replies"`
	Path    []domain.Step    `json:"path"`
}

// ClassifyRequest is the body of POST /v1/classify.
type ClassifyRequest struct {
	Message string `json:"message"`
}

// IntentResponse is domain.Intent plus its display label.
type IntentResponse struct {
	domain.Intent
	Label string `json:"label"`
}

// StatusList is the body returned by GET /v1/statuses.
type StatusList struct {
	Statuses []string `json:"statuses"`
}

// TextResponse wraps collaborator text.
type TextResponse struct {
	Text string `json:"text"`
}

// GetTicketsParams holds the query parameters of GET /v1/tickets.
type GetTicketsParams struct {
	Status *string `form:"status,omitempty" json:"status,omitempty"`
}

// ServerInterface is implemented by Server, one method per operation.
type ServerInterface interface {
	PostTurn(w http.ResponseWriter, r *http.Request)
	PostClassify(w http.ResponseWriter, r *http.Request)
	GetStatuses(w http.ResponseWriter, r *http.Request)
	GetTickets(w http.ResponseWriter, r *http.Request, params GetTicketsParams)
	GetTicketSummary(w http.ResponseWriter, r *http.Request, key string)
	GetGraph(w http.ResponseWriter, r *http.Request)
}

// HandlerFromMux registers the API routes on r, binding parameters before dispatch.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	r.Post("/v1/turn", si.PostTurn)
	r.Post("/v1/classify", si.PostClassify)
	r.Get("/v1/statuses", si.GetStatuses)
	r.Get("/v1/graph", si.GetGraph)

	r.Get("/v1/tickets", func(w http.ResponseWriter, req *http.Request) {
		var params GetTicketsParams
		if err := runtime.BindQueryParameter("form", true, false, "status", req.URL.Query(), &params.Status); err != nil {
			http.Error(w, fmt.Sprintf("Invalid format for parameter status: %v", err), http.StatusBadRequest)
			return
		}
		si.GetTickets(w, req, params)
	})

	r.Get("/v1/tickets/{key}/summary", func(w http.ResponseWriter, req *http.Request) {
		var key string
		err := runtime.BindStyledParameterWithOptions("simple", "key", chi.URLParam(req, "key"), &key,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid format for parameter key: %v", err), http.StatusBadRequest)
			return
		}
		si.GetTicketSummary(w, req, key)
	})

	return r
}

// requestValidator rejects requests that do not match the API description.
// Paths the description does not know are passed through untouched.
func requestValidator(doc *openapi3.T) (func(http.Handler) http.Handler, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build validation router: %w", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if err := validate(r.Context(), r, route, pathParams); err != nil {
				http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

func validate(ctx context.Context, r *http.Request, route *routers.Route, pathParams map[string]string) error {
	return openapi3filter.ValidateRequest(ctx, &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
		Options:    &openapi3filter.Options{MultiError: false},
	})
}
