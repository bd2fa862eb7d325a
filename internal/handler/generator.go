package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/service"
)

// GeneratorHandler handles HTTP requests for password generation.
type GeneratorHandler struct {
	service *service.GeneratorService
}

// NewGeneratorHandler creates a new GeneratorHandler.
func NewGeneratorHandler(svc *service.GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{service: svc}
}

// HandleGenerate handles POST /api/v1/generate requests.
// An empty body generates a password with the default options.
func (h *GeneratorHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateRequest
	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
				return
			}
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
			return
		}
	}

	h.generate(w, req)
}

// HandleGenerateQuery handles GET /api/v1/generate?length=&numbers=&symbols=&count= requests.
func (h *GeneratorHandler) HandleGenerateQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var req model.GenerateRequest
	var err error
	if req.Length, err = queryInt(q, "length"); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid length"))
		return
	}
	if req.Numbers, err = queryBool(q, "numbers"); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid numbers flag"))
		return
	}
	if req.Symbols, err = queryBool(q, "symbols"); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid symbols flag"))
		return
	}
	count, err := queryInt(q, "count")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid count"))
		return
	}
	if count != nil {
		req.Count = *count
	}

	h.generate(w, req)
}

// HandlePool handles GET /api/v1/pool?numbers=&symbols= requests.
func (h *GeneratorHandler) HandlePool(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	numbers, err := queryBool(q, "numbers")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid numbers flag"))
		return
	}
	symbols, err := queryBool(q, "symbols")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid symbols flag"))
		return
	}

	writeJSON(w, http.StatusOK, h.service.Pool(numbers != nil && *numbers, symbols != nil && *symbols))
}

func (h *GeneratorHandler) generate(w http.ResponseWriter, req model.GenerateRequest) {
	w.Header().Set("Cache-Control", "no-store")

	resp, err := h.service.Generate(req)
	if err != nil {
		if service.IsValidationError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func queryInt(q url.Values, key string) (*int, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func queryBool(q url.Values, key string) (*bool, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}
