package blog

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/pencraft/pencraft/modules/auth"
	"github.com/pencraft/pencraft/pkg/binder"
	"github.com/pencraft/pencraft/pkg/logger"
	"github.com/pencraft/pencraft/pkg/response"
	"github.com/pencraft/pencraft/pkg/validator"
)

// Handler exposes the blog HTTP surface under /post and /comment.
type Handler struct {
	service *Service
	users   auth.UserStorage
	log     *slog.Logger
}

// NewHandler wires the blog service into an HTTP handler. The user storage
// backs the authentication guard on protected routes.
func NewHandler(service *Service, users auth.UserStorage, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{service: service, users: users, log: log}
}

// PostRoutes returns the router for /post.
func (h *Handler) PostRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.listPublished)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(h.users))
		r.Get("/my-posts", h.listMine)
		r.Get("/by-id/{id}", h.getOwnPost)
		r.Post("/", h.createPost)
		r.Put("/{id}", h.updatePost)
		r.Delete("/{id}", h.deletePost)
	})

	// Registered last so fixed paths above win over the slug wildcard.
	r.Get("/{slug}", h.getBySlug)

	return r
}

// CommentRoutes returns the router for /comment.
func (h *Handler) CommentRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/post/{postId}", h.listComments)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(h.users))
		r.Get("/my-comments", h.listMyComments)
		r.Post("/", h.createComment)
		r.Put("/{id}", h.updateComment)
		r.Delete("/{id}", h.deleteComment)
	})

	return r
}

func (h *Handler) listPublished(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPublished(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.M{"posts": posts})
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Message(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	posts, err := h.service.ListMine(r.Context(), user.ID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.M{"posts": posts})
}

func (h *Handler) getOwnPost(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Message(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.Message(w, http.StatusNotFound, "Post not found")
		return
	}

	post, err := h.service.GetOwnPost(r.Context(), user.ID, id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.M{"post": post})
}

func (h *Handler) getBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.M{"post": post})
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Message(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var params CreatePostParams
	if err := binder.JSON(r, &params); err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.service.CreatePost(r.Context(), user.ID, params)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.M{
		"message": "Post created",
		"post":    post,
	})
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Message(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.Message(w, http.StatusNotFound, "Post not found")
		return
	}

	var params struct {
		Title   *string   `json:"title"`
		Content *string   `json:"content"`
		Tags    *[]string `json:"tags"`
		Status  *string   `json:"status"`
	}
	if err := binder.JSON(r, &params); err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.service.UpdatePost(r.Context(), user.ID, id, PostUpdate{
		Title:   params.Title,
		Content: params.Content,
		Tags:    params.Tags,
		Status:  params.Status,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.M{
		"message": "Post updated",
		"post":    post,
	})
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Message(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.Message(w, http.StatusNotFound, "Post not found")
		return
	}

	if err := h.service.DeletePost(r.Context(), user.ID, id); err != nil {
		h.respondError(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Post deleted")
}

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	postID, err := bson.ObjectIDFromHex(chi.URLParam(r, "postId"))
	if err != nil {
		response.Message(w, http.StatusNotFound, "Post not found")
		return
	}

	comments, err := h.service.ListComments(r.Context(), postID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.M{"comments": comments})
}

func (h *Handler) listMyComments(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Message(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	comments, err := h.service.ListMyComments(r.Context(), user.ID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.M{"comments": comments})
}

func (h *Handler) createComment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Message(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var params CreateCommentParams
	if err := binder.JSON(r, &params); err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.service.CreateComment(r.Context(), user.ID, params)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.M{
		"message": "Comment created",
		"comment": comment,
	})
}

func (h *Handler) updateComment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Message(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.Message(w, http.StatusNotFound, "Comment not found")
		return
	}

	var params struct {
		Content string `json:"content"`
	}
	if err := binder.JSON(r, &params); err != nil {
		response.Message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.service.UpdateComment(r.Context(), user.ID, id, params.Content)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.M{
		"message": "Comment updated",
		"comment": comment,
	})
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		response.Message(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		response.Message(w, http.StatusNotFound, "Comment not found")
		return
	}

	if err := h.service.DeleteComment(r.Context(), user.ID, id); err != nil {
		h.respondError(w, r, err)
		return
	}
	response.Message(w, http.StatusOK, "Comment deleted")
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrPostNotFound):
		response.Message(w, http.StatusNotFound, "Post not found")
	case errors.Is(err, ErrCommentNotFound):
		response.Message(w, http.StatusNotFound, "Comment not found")
	case errors.Is(err, ErrForbidden):
		response.Message(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, ErrInvalidStatus):
		response.Message(w, http.StatusBadRequest, "Status must be draft or published")
	case validator.ExtractValidationErrors(err) != nil:
		response.Message(w, http.StatusBadRequest, err.Error())
	default:
		h.log.ErrorContext(r.Context(), "blog request failed",
			logger.Component("blog.handler"),
			logger.Error(err),
		)
		response.Message(w, http.StatusInternalServerError, "Server error")
	}
}
