package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/gonotes/internal/note"
	"github.com/gogotex/gonotes/internal/note/service"
	"github.com/gogotex/gonotes/pkg/middleware"
)

// Handler exposes the note service over HTTP.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Guards are the middleware chains placed in front of public and protected
// routes. Protected must authenticate the caller.
type Guards struct {
	Public    []gin.HandlerFunc
	Protected []gin.HandlerFunc
}

func chain(guard []gin.HandlerFunc, fn gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guard)+1)
	return append(append(out, guard...), fn)
}

// RegisterRoutes mounts the note routes under /notes and the legacy aliases
// under /api/notes.
func (h *Handler) RegisterRoutes(r gin.IRouter, g Guards) {
	pub := func(fn gin.HandlerFunc) []gin.HandlerFunc { return chain(g.Public, fn) }
	prot := func(fn gin.HandlerFunc) []gin.HandlerFunc { return chain(g.Protected, fn) }

	n := r.Group("/notes")
	n.GET("/mine", prot(h.ListMine)...)
	n.GET("/all", pub(h.ListAll)...)
	n.POST("", prot(h.Create)...)
	n.GET("/:id", pub(h.Get)...)
	n.PUT("/:id", prot(h.Update)...)
	n.DELETE("/:id", prot(h.Delete)...)

	legacy := r.Group("/api/notes")
	legacy.GET("/fetchallposts", prot(h.ListMine)...)
	legacy.GET("/fetchalluserposts", pub(h.ListAll)...)
	legacy.POST("/addpost", prot(h.Create)...)
	legacy.PUT("/updatenote/:id", prot(h.Update)...)
	legacy.DELETE("/deletenote/:id", prot(h.Delete)...)
	legacy.GET("/fetchpost/:id", pub(h.Get)...)
}

func (h *Handler) ListMine(c *gin.Context) {
	notes, err := h.svc.ListMine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *Handler) ListAll(c *gin.Context) {
	notes, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *Handler) Create(c *gin.Context) {
	var in service.CreateInput
	if err := bindJSON(c, &in); err != nil {
		writeBadBody(c, err)
		return
	}
	n, err := h.svc.Create(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) Get(c *gin.Context) {
	n, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) Update(c *gin.Context) {
	var p note.Patch
	if err := bindJSON(c, &p); err != nil {
		writeBadBody(c, err)
		return
	}
	n, err := h.svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": n})
}

func (h *Handler) Delete(c *gin.Context) {
	n, err := h.svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": "Note has been deleted", "note": n})
}

// bindJSON decodes the body into v. A missing body leaves v at its zero value.
func bindJSON(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
