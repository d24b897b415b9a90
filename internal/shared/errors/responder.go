package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper maps a domain or application error to a problem.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes problem documents. Mappers are tried in order before the
// error is treated as internal.
type Responder struct {
	baseURI string
	mappers []ErrorMapper
}

func NewResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{baseURI: baseURI, mappers: mappers}
}

// DefaultResponder uses relative problem type URIs and no mappers.
var DefaultResponder = NewResponder("")

// Respond sends the problem with the problem+json media type.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError maps err and responds. Unmapped errors become 500s.
func (r *Responder) RespondError(c *gin.Context, err error) {
	r.Respond(c, r.Problem(err))
}

// Problem resolves the problem document for err without writing it.
func (r *Responder) Problem(err error) ProblemDetail {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem
	}
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			return problem
		}
	}
	return ErrInternal.WithDetail(err.Error())
}

func (r *Responder) NotFound(c *gin.Context, resourceType string, identifier any) {
	r.Respond(c, NewNotFoundProblem(resourceType, identifier))
}

func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Respond(c, ErrBadRequest.WithDetail(detail))
}

func (r *Responder) ValidationFailed(c *gin.Context, fieldErrors map[string]string) {
	r.Respond(c, NewValidationProblem(fieldErrors))
}

// Sentinel returns a mapper that matches target with errors.Is and renders
// problem with err's message as detail.
func Sentinel(target error, problem ProblemDetail) ErrorMapper {
	return func(err error) (ProblemDetail, bool) {
		if !errors.Is(err, target) {
			return ProblemDetail{}, false
		}
		return problem.WithDetail(err.Error()), true
	}
}

// HTTPStatusFromError extracts the HTTP status from a problem error.
func HTTPStatusFromError(err error) int {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem.Status
	}
	return http.StatusInternalServerError
}
