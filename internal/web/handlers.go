package web

import (
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/hpungsan/roster/internal/config"
	"github.com/hpungsan/roster/internal/directory"
	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/ops"
	"github.com/hpungsan/roster/internal/tenure"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	store    *directory.Store
	cfg      *config.Config
	renderer *Renderer
	clock    tenure.Clock
	logger   *zap.Logger
	about    template.HTML
}

// HandleList handles GET /employees, the filtered directory.
// An optional selected=<id> opens the detail overlay on that record.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	st := directory.NewState(h.store).Search(r.URL.Query().Get("q"))
	if id, ok := parseIDParam(r.URL.Query().Get("selected")); ok {
		st = st.Select(id)
	}

	data := h.listData(st)

	// The search box swaps only the results block.
	if r.Header.Get("HX-Target") == "results" {
		h.renderer.renderBlock(w, http.StatusOK, "list", "results", data)
		return
	}

	h.renderer.renderPage(w, r, "list", data)
}

// HandleDetail handles GET /employees/{id}, the detail overlay.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r.PathValue("id"))
	if !ok {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("employee id must be a positive integer"))
		return
	}

	// JSON request
	if wantsJSON(r) && !isFragment(r) {
		detail, err := ops.Fetch(h.store, ops.FetchInput{ID: id, Org: h.cfg.OrgName, AsOf: h.clock.Now()})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		renderJSON(w, http.StatusOK, detail)
		return
	}

	st := directory.NewState(h.store).Search(r.URL.Query().Get("q")).Select(id)
	if st.Open() {
		h.logger.Debug("overlay opened", zap.Int("id", id))
	}

	// Fragment request: the overlay alone. Unknown ids leave the page as it is.
	if isFragment(r) {
		if !st.Open() {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.renderer.renderBlock(w, http.StatusOK, "list", "overlay", h.listData(st))
		return
	}

	h.renderer.renderPage(w, r, "list", h.listData(st))
}

// HandleAbout handles GET /about, the tenure legend.
func (h *Handlers) HandleAbout(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "about", AboutPageData{
		PageData: h.pageData("About", "about"),
		Content:  h.about,
	})
}

func (h *Handlers) listData(st directory.State) ListPageData {
	view := ops.Project(st, h.clock.Now(), h.cfg.OrgName)
	data := ListPageData{
		PageData: h.pageData("Employee Directory", "directory"),
		View:     view,
	}
	if view.ScrollLocked {
		data.BodyClass = "scroll-locked"
	}
	if view.Detail != nil {
		data.Title = view.Detail.Name
	}
	return data
}

func (h *Handlers) pageData(title, nav string) PageData {
	return PageData{
		Title:   title,
		Version: h.renderer.version,
		Org:     h.cfg.OrgName,
		Nav:     nav,
	}
}

// parseIDParam parses a positive integer id.
func parseIDParam(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
