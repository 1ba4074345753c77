package person

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/person-registry/backend/internal/metrics"
	"github.com/zhouzirui/person-registry/backend/internal/model/person"
	"github.com/zhouzirui/person-registry/backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

// Handler person服务的HTTP处理器
type Handler struct {
	persons person.Store
	metrics *metrics.Metrics
	reads   []func(http.Handler) http.Handler
}

// New 创建person处理器，readMiddlewares 只包裹读路由
func New(persons person.Store, m *metrics.Metrics, readMiddlewares ...func(http.Handler) http.Handler) *Handler {
	return &Handler{
		persons: persons,
		metrics: m,
		reads:   readMiddlewares,
	}
}

// RegisterRoutes 注册person相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	reads := r.With(h.reads...)
	reads.Get("/persons", h.handleList)
	reads.Get("/persons/{name}/{bban}", h.handleGet)

	r.Post("/persons", h.handleCreate)
	r.Put("/persons/{name}/{bban}", h.handleUpdate)
	r.Delete("/persons/{name}/{bban}", h.handleDelete)
}

type deleteResponse struct {
	Message string `json:"message"`
	Removed int    `json:"removed"`
}

// handleList 列出所有person
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	persons := h.persons.List()
	h.metrics.ObserveOperation("list", metrics.ResultOK)
	utils.RespondJSON(w, http.StatusOK, persons)
}

// handleGet 按姓名和BBAN查询person
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	name, bban := keyParams(r)

	p, err := h.persons.Find(name, bban)
	h.metrics.ObserveOperation("find", result(err))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

// handleCreate 新增person
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.decodePerson(w, r, "create")
	if !ok {
		return
	}

	created, err := h.persons.Create(p)
	h.metrics.ObserveOperation("create", result(err))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, created)
}

// handleUpdate 更新person
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	name, bban := keyParams(r)

	p, ok := h.decodePerson(w, r, "update")
	if !ok {
		return
	}

	updated, err := h.persons.Update(name, bban, p)
	h.metrics.ObserveOperation("update", result(err))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, updated)
}

// handleDelete 删除person
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	name, bban := keyParams(r)

	removed, err := h.persons.Delete(name, bban)
	h.metrics.ObserveOperation("delete", result(err))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, deleteResponse{
		Message: fmt.Sprintf("Person %s with BBAN %s deleted successfully", name, bban),
		Removed: removed,
	})
}

// decodePerson 解析并校验请求体，失败时已写入错误响应
func (h *Handler) decodePerson(w http.ResponseWriter, r *http.Request, operation string) (person.Person, bool) {
	p, err := person.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err == nil {
		return p, true
	}

	h.metrics.ObserveOperation(operation, metrics.ResultInvalid)

	var verr *person.ValidationError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &verr):
		utils.RespondFieldErrors(w, http.StatusUnprocessableEntity, "invalid person", verr.Fields)
	case errors.As(err, &tooLarge):
		utils.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
	default:
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
	}
	return person.Person{}, false
}

func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, person.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, person.ErrDuplicateKey):
		utils.RespondError(w, http.StatusBadRequest, person.ErrDuplicateKey.Error())
	default:
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}

func result(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, person.ErrNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, person.ErrDuplicateKey):
		return metrics.ResultDuplicate
	default:
		return metrics.ResultError
	}
}

// keyParams 从URL中取出姓名和BBAN
func keyParams(r *http.Request) (string, string) {
	return urlParam(r, "name"), urlParam(r, "bban")
}

// chi 按 RawPath 匹配时参数仍是转义形式
func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}
