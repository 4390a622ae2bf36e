package mockserver

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

//go:embed openapi.yaml
var openapiSpec []byte

// loadRouter parses and validates the embedded API document.
// A broken document is a programming error, hence the panic.
func loadRouter() routers.Router {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		panic(fmt.Sprintf("embedded openapi document is invalid: %v", err))
	}
	if err := doc.Validate(loader.Context); err != nil {
		panic(fmt.Sprintf("embedded openapi document failed validation: %v", err))
	}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		panic(fmt.Sprintf("failed to build openapi router: %v", err))
	}
	return router
}

// validationMiddleware rejects requests whose shape does not match the API
// document, so handler code only ever sees well-formed input.
func (s *Server) validationMiddleware() func(http.Handler) http.Handler {
	router := loadRouter()
	opts := &openapi3filter.Options{
		// Authentication is enforced by requireAuth, not by the validator.
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				// Unknown path: let the mux produce its own 404.
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    opts,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				s.logger.Debug("request failed schema validation", "path", r.URL.Path, "err", err)
				s.writeError(w, http.StatusBadRequest, "Malformed request body.", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
