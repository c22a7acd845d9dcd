package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"postadmin/app/markdown"
	"postadmin/app/models"
	"postadmin/app/repositories"
	"postadmin/app/services"
	"postadmin/app/views"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const slugTakenMessage = "Slug is already in use"

// PostController serves the admin pages for editing blog posts
type PostController struct {
	postService *services.PostService
	renderer    *markdown.Renderer
	templates   map[string]*template.Template
}

// editPage is the data behind the edit form.
type editPage struct {
	// Slug is the key the form submits to, Post.Slug is what the input shows.
	Slug    string
	Post    *models.Post
	Errors  models.FieldErrors
	Preview template.HTML
}

// NewPostController creates a new PostController
func NewPostController(
	postService *services.PostService,
	renderer *markdown.Renderer,
	templates map[string]*template.Template,
) *PostController {
	return &PostController{
		postService: postService,
		renderer:    renderer,
		templates:   templates,
	}
}

// NewPostControllerWithDB wires a PostController over a badger database
// and the embedded templates.
func NewPostControllerWithDB(db *badger.DB) *PostController {
	postRepo := repositories.NewBadgerPostRepository(db)
	return NewPostController(
		services.NewPostService(postRepo),
		markdown.NewRenderer(),
		views.MustLoad(),
	)
}

// Index lists every post with a link to its edit form
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.ListPosts(r.Context())
	if err != nil {
		log.Errorf("list posts: %s", err)
		pc.sendError(w, r, "Failed to fetch posts", http.StatusInternalServerError)
		return
	}

	if wantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
		return
	}

	data := struct {
		Posts []*models.Post
	}{
		Posts: posts,
	}
	pc.render(w, r, views.AdminIndex, http.StatusOK, data)
}

// Edit loads the post named by the slug path parameter and renders the form
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	slug, ok := pc.slugVar(w, r)
	if !ok {
		return
	}

	post, err := pc.postService.GetPost(r.Context(), slug)
	if errors.Is(err, repositories.ErrNotFound) {
		pc.sendError(w, r, "Post not found: "+slug, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("edit post [%s]: %s", slug, err)
		pc.sendError(w, r, "Failed to fetch post", http.StatusInternalServerError)
		return
	}

	if wantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, post)
		return
	}
	pc.renderEdit(w, r, http.StatusOK, slug, post, nil)
}

// Update validates the submitted title, slug and markdown and persists them.
// Missing fields re-render the form with the submitted values; success
// redirects to the form under the (possibly new) slug.
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	slug, ok := pc.slugVar(w, r)
	if !ok {
		return
	}

	var post models.Post
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
			pc.sendError(w, r, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			pc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
			return
		}
		post.Title = r.PostForm.Get("title")
		post.Slug = r.PostForm.Get("slug")
		post.Markdown = r.PostForm.Get("markdown")
	}

	err := pc.postService.UpdatePost(r.Context(), slug, &post)

	var fieldErrs models.FieldErrors
	switch {
	case err == nil:
	case errors.As(err, &fieldErrs):
		pc.sendFieldErrors(w, r, http.StatusUnprocessableEntity, slug, &post, fieldErrs)
		return
	case errors.Is(err, repositories.ErrSlugTaken):
		fieldErrs = models.FieldErrors{"slug": slugTakenMessage}
		pc.sendFieldErrors(w, r, http.StatusConflict, slug, &post, fieldErrs)
		return
	case errors.Is(err, repositories.ErrNotFound):
		pc.sendError(w, r, "Post not found: "+slug, http.StatusNotFound)
		return
	default:
		log.Errorf("update post [%s]: %s", slug, err)
		pc.sendError(w, r, "Failed to update post", http.StatusInternalServerError)
		return
	}

	if wantsJSON(r) {
		pc.sendJSON(w, http.StatusOK, post)
		return
	}
	http.Redirect(w, r, "/posts/admin/"+url.PathEscape(post.Slug), http.StatusSeeOther)
}

// slugVar decodes the slug path parameter. The router matches on the
// encoded path so a slug may contain an escaped "/".
func (pc *PostController) slugVar(w http.ResponseWriter, r *http.Request) (string, bool) {
	slug, err := url.PathUnescape(mux.Vars(r)["slug"])
	if err != nil {
		pc.sendError(w, r, "Invalid slug: "+err.Error(), http.StatusBadRequest)
		return "", false
	}
	return slug, true
}

func (pc *PostController) sendFieldErrors(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	slug string,
	post *models.Post,
	fieldErrs models.FieldErrors,
) {
	if wantsJSON(r) {
		pc.sendJSON(w, status, map[string]interface{}{"errors": fieldErrs})
		return
	}
	pc.renderEdit(w, r, status, slug, post, fieldErrs)
}

func (pc *PostController) renderEdit(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	slug string,
	post *models.Post,
	fieldErrs models.FieldErrors,
) {
	page := editPage{
		Slug:   slug,
		Post:   post,
		Errors: fieldErrs,
	}
	if post.Markdown != "" {
		preview, err := pc.renderer.Render(post.Markdown)
		if err != nil {
			log.Warnf("preview for post [%s]: %s", slug, err)
		} else {
			page.Preview = preview
		}
	}
	pc.render(w, r, views.AdminEdit, status, page)
}

// render executes the page into a buffer first so a template error
// never leaves a half-written response behind.
func (pc *PostController) render(w http.ResponseWriter, r *http.Request, name string, status int, data interface{}) {
	tmpl, ok := pc.templates[name]
	if !ok {
		pc.sendError(w, r, "Template not found: "+name, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Errorf("execute template %s: %s", name, err)
		pc.sendError(w, r, "Template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Errorf("write %s response: %s", name, err)
	}
}

// Helper methods for consistent response handling

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json" || strings.HasPrefix(r.URL.Path, "/api")
}

func (pc *PostController) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Errorf("encode json response: %s", err)
	}
}

func (pc *PostController) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if wantsJSON(r) {
		pc.sendJSON(w, status, map[string]string{"error": message})
		return
	}
	http.Error(w, message, status)
}
