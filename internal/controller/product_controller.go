package controller

import (
	"fmt"
	"mime/multipart"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Aymix/whitecart/internal/domain"
	"github.com/Aymix/whitecart/internal/dto"
	"github.com/Aymix/whitecart/internal/middleware"
	"github.com/Aymix/whitecart/internal/service"
	pkgdto "github.com/Aymix/whitecart/pkg/dto"
	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/Aymix/whitecart/pkg/response"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

var indexedDescriptionKey = regexp.MustCompile(`^description\[(\d+)\]$`)

type ProductController struct {
	service service.ProductService
}

func CreateProductController(g *echo.Group, service service.ProductService, isLoggedIn echo.MiddlewareFunc) {
	c := ProductController{
		service: service,
	}

	sellerOnly := middleware.Authorize(domain.RoleSeller)

	g.GET("/products", c.GetProducts)
	g.GET("/products/search", c.SearchProducts)
	g.GET("/products/:id", c.GetProductByID)
	g.POST("/products", c.AddProduct, isLoggedIn, sellerOnly)
	g.PUT("/products/:id", c.UpdateProduct, isLoggedIn, sellerOnly)
	g.DELETE("/products/:id", c.DeleteProduct, isLoggedIn, sellerOnly)
}

func (c *ProductController) GetProducts(e echo.Context) error {
	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "GetProducts").Msg("")
	}

	resp, err := c.service.GetProducts(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteListResponse(e, len(resp), resp)
}

func (c *ProductController) SearchProducts(e echo.Context) error {
	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "SearchProducts").Msg("")
	}

	resp, err := c.service.SearchProducts(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteListResponse(e, len(resp), resp)
}

func (c *ProductController) GetProductByID(e echo.Context) error {
	resp, err := c.service.GetProductByID(e.Request().Context(), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *ProductController) AddProduct(e echo.Context) error {
	payload, err := bindProductRequest(e)
	if err != nil {
		log.Ctx(e.Request().Context()).Info().Err(err).Str("component", "AddProduct").Msg("")
		return response.WriteErrorResponse(e, err, nil)
	}

	resp, err := c.service.AddProduct(e.Request().Context(), callerFrom(e), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteCreatedResponse(e, "", resp)
}

func (c *ProductController) UpdateProduct(e echo.Context) error {
	payload, err := bindProductRequest(e)
	if err != nil {
		log.Ctx(e.Request().Context()).Info().Err(err).Str("component", "UpdateProduct").Msg("")
		return response.WriteErrorResponse(e, err, nil)
	}

	resp, err := c.service.UpdateProduct(e.Request().Context(), callerFrom(e), e.Param("id"), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *ProductController) DeleteProduct(e echo.Context) error {
	err := c.service.DeleteProduct(e.Request().Context(), callerFrom(e), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", struct{}{})
}

// bindProductRequest reads a multipart form, coercing numbers from strings and
// collecting description lines sent as description or description[i]. Other
// content types are bound as JSON.
func bindProductRequest(e echo.Context) (req dto.ProductRequest, err error) {
	contentType := e.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		if err = e.Bind(&req); err != nil {
			return req, errs.ErrClient
		}
		req.Image = nil
		return req, nil
	}

	form, err := e.MultipartForm()
	if err != nil {
		return req, errs.ErrClient
	}

	if v, ok := formValue(form, "name"); ok {
		req.Name = &v
	}
	if v, ok := formValue(form, "category"); ok {
		req.Category = &v
	}
	if req.Price, err = formFloat(form, "price"); err != nil {
		return
	}
	if req.OfferPrice, err = formFloat(form, "offerPrice"); err != nil {
		return
	}
	if req.Stock, err = formInt(form, "stock"); err != nil {
		return
	}

	req.Description = formDescription(form)

	if files := form.File["image"]; len(files) > 0 {
		req.Image = files[0]
	}

	return req, nil
}

func formValue(form *multipart.Form, key string) (string, bool) {
	values := form.Value[key]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func formFloat(form *multipart.Form, key string) (*float64, error) {
	raw, ok := formValue(form, key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, errs.WithMessage(errs.ErrValidation, fmt.Sprintf("%s must be a number", key))
	}
	return &v, nil
}

func formInt(form *multipart.Form, key string) (*int64, error) {
	raw, ok := formValue(form, key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, errs.WithMessage(errs.ErrValidation, fmt.Sprintf("%s must be a whole number", key))
	}
	return &v, nil
}

// formDescription returns nil when no description field was sent.
func formDescription(form *multipart.Form) []string {
	var description []string
	if values, ok := form.Value["description"]; ok {
		description = append(description, values...)
	}
	if values, ok := form.Value["description[]"]; ok {
		description = append(description, values...)
	}

	type indexed struct {
		index int
		value string
	}
	var lines []indexed
	for key, values := range form.Value {
		match := indexedDescriptionKey.FindStringSubmatch(key)
		if match == nil || len(values) == 0 {
			continue
		}
		index, _ := strconv.Atoi(match[1])
		lines = append(lines, indexed{index: index, value: values[0]})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].index < lines[j].index })
	for _, line := range lines {
		description = append(description, line.value)
	}

	return description
}
