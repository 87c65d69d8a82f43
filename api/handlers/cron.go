package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/liliang-cn/datacron/pkg/cronexpr"
)

// CronHandler serves the expression builder endpoints. Each request may
// pick its locale with ?locale=; the default is the configured catalog.
type CronHandler struct {
	catalog      *cronexpr.Catalog
	previewCount int
	now          func() time.Time
}

func NewCronHandler(catalog *cronexpr.Catalog, previewCount int) *CronHandler {
	if catalog == nil {
		catalog = cronexpr.DefaultCatalog()
	}
	return &CronHandler{
		catalog:      catalog,
		previewCount: previewCount,
		now:          time.Now,
	}
}

type ValidateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type ValidateResponse struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Valid bool   `json:"valid"`
}

type ExpressionRequest struct {
	Expression string `json:"expression"`
}

type ComposeResponse struct {
	Expression  string               `json:"expression"`
	Description string               `json:"description"`
	Invalid     []cronexpr.FieldName `json:"invalid"`
}

type DecomposeResponse struct {
	Fields     cronexpr.Fields `json:"fields"`
	Expression string          `json:"expression"`
}

type DescribeResponse struct {
	Expression  string `json:"expression"`
	Description string `json:"description"`
}

type PreviewRequest struct {
	Expression string     `json:"expression"`
	Count      int        `json:"count,omitempty"`
	From       *time.Time `json:"from,omitempty"`
}

type PreviewResponse struct {
	Expression  string      `json:"expression"`
	Description string      `json:"description"`
	Runs        []time.Time `json:"runs"`
}

func (h *CronHandler) catalogFor(c echo.Context) (*cronexpr.Catalog, error) {
	raw := c.QueryParam("locale")
	if raw == "" {
		return h.catalog, nil
	}
	locale, err := cronexpr.ParseLocale(raw)
	if err != nil {
		return nil, badRequest(err.Error())
	}
	cat, err := cronexpr.NewCatalog(locale)
	if err != nil {
		return nil, badRequest(err.Error())
	}
	return cat, nil
}

// ListFields handles GET /api/cron/fields.
func (h *CronHandler) ListFields(c echo.Context) error {
	cat, err := h.catalogFor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat.Specs())
}

// GetField handles GET /api/cron/fields/:name.
func (h *CronHandler) GetField(c echo.Context) error {
	cat, err := h.catalogFor(c)
	if err != nil {
		return err
	}
	name, err := cronexpr.ParseFieldName(c.Param("name"))
	if err != nil {
		return httpError(err)
	}
	spec, err := cat.Spec(name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, spec)
}

// FieldOptions handles GET /api/cron/fields/:name/options.
func (h *CronHandler) FieldOptions(c echo.Context) error {
	cat, err := h.catalogFor(c)
	if err != nil {
		return err
	}
	name, err := cronexpr.ParseFieldName(c.Param("name"))
	if err != nil {
		return httpError(err)
	}
	opts, err := cat.Options(name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, opts)
}

// Validate handles POST /api/cron/validate.
func (h *CronHandler) Validate(c echo.Context) error {
	var req ValidateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	name, err := cronexpr.ParseFieldName(req.Field)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ValidateResponse{
		Field: string(name),
		Value: req.Value,
		Valid: cronexpr.ValidateField(req.Value, name),
	})
}

// Compose handles POST /api/cron/compose. Invalid fields are reported
// next to the composed string rather than rejected, so a form can show
// both at once.
func (h *CronHandler) Compose(c echo.Context) error {
	cat, err := h.catalogFor(c)
	if err != nil {
		return err
	}
	var fields cronexpr.Fields
	if err := c.Bind(&fields); err != nil {
		return badRequest("invalid request body")
	}
	expr := cronexpr.Compose(fields)
	invalid := fields.Invalid()
	if invalid == nil {
		invalid = []cronexpr.FieldName{}
	}
	return c.JSON(http.StatusOK, ComposeResponse{
		Expression:  expr,
		Description: cat.Describe(expr),
		Invalid:     invalid,
	})
}

// Decompose handles POST /api/cron/decompose.
func (h *CronHandler) Decompose(c echo.Context) error {
	var req ExpressionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	fields, ok := cronexpr.Decompose(req.Expression)
	if !ok {
		return badRequest("expression needs at least 6 fields")
	}
	return c.JSON(http.StatusOK, DecomposeResponse{
		Fields:     fields,
		Expression: cronexpr.Compose(fields),
	})
}

// Describe handles POST /api/cron/describe.
func (h *CronHandler) Describe(c echo.Context) error {
	cat, err := h.catalogFor(c)
	if err != nil {
		return err
	}
	var req ExpressionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	return c.JSON(http.StatusOK, DescribeResponse{
		Expression:  req.Expression,
		Description: cat.Describe(req.Expression),
	})
}

// Preview handles POST /api/cron/preview.
func (h *CronHandler) Preview(c echo.Context) error {
	cat, err := h.catalogFor(c)
	if err != nil {
		return err
	}
	var req PreviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	count := req.Count
	if count <= 0 {
		count = h.previewCount
	}
	if count > 100 {
		return badRequest("count must not exceed 100")
	}
	from := h.now()
	if req.From != nil {
		from = *req.From
	}

	runs, err := cronexpr.NextRuns(req.Expression, from, count)
	if err != nil {
		return httpError(err)
	}
	if runs == nil {
		runs = []time.Time{}
	}
	return c.JSON(http.StatusOK, PreviewResponse{
		Expression:  req.Expression,
		Description: cat.Describe(req.Expression),
		Runs:        runs,
	})
}
