package http

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/scoreboard/pkg/domain/interfaces"
	"github.com/secmon-lab/scoreboard/pkg/domain/model"
	"github.com/secmon-lab/scoreboard/pkg/service/chart"
	"github.com/secmon-lab/scoreboard/pkg/utils/apperr"
)

// dashboardHandler serves the dashboard page, chart images and the JSON API
type dashboardHandler struct {
	collection string
	dashboard  interfaces.Dashboard
	store      *FrameStore
	tmpl       *template.Template
}

// pageData is the view model of the dashboard template
type pageData struct {
	Frame       *model.Frame
	Settings    model.Settings
	Collection  string
	Refresh     int
	MinInterval int
	MaxInterval int
}

// settingsPayload is the JSON form of session settings. Omitted fields keep their
// current value on update.
type settingsPayload struct {
	Interval *int  `json:"interval_sec,omitempty"`
	Live     *bool `json:"live,omitempty"`
}

func newSettingsPayload(s model.Settings) settingsPayload {
	interval := s.IntervalSeconds()
	live := s.Live
	return settingsPayload{Interval: &interval, Live: &live}
}

// apply overlays the payload on current settings
func (p settingsPayload) apply(current model.Settings) (model.Settings, error) {
	interval, live := current.IntervalSeconds(), current.Live
	if p.Interval != nil {
		interval = *p.Interval
	}
	if p.Live != nil {
		live = *p.Live
	}
	return model.NewSettings(interval, live)
}

func (h *dashboardHandler) handlePage(w http.ResponseWriter, r *http.Request) {
	frame := h.store.Latest()
	settings := h.dashboard.Settings()

	data := pageData{
		Frame:       frame,
		Settings:    settings,
		Collection:  h.collection,
		MinInterval: int(model.MinRefreshInterval / time.Second),
		MaxInterval: int(model.MaxRefreshInterval / time.Second),
	}
	switch {
	case frame == nil:
		// first cycle has not finished yet
		data.Refresh = 1
	case settings.Live:
		data.Refresh = settings.IntervalSeconds()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, "dashboard", data); err != nil {
		apperr.Handle(r.Context(), goerr.Wrap(err, "failed to render dashboard page"))
	}
}

func (h *dashboardHandler) handleSettingsForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	interval, err := strconv.Atoi(r.PostFormValue("interval"))
	if err != nil {
		http.Error(w, "interval must be an integer", http.StatusBadRequest)
		return
	}
	live := r.PostFormValue("live") == "true"

	settings, err := model.NewSettings(interval, live)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.dashboard.UpdateSettings(settings); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctxlog.From(r.Context()).Info("Dashboard settings updated",
		"interval", settings.Interval,
		"live", settings.Live,
	)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *dashboardHandler) handleChart(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	ext := path.Ext(file)
	view := model.ViewName(strings.TrimSuffix(file, ext))
	if !view.IsValid() {
		http.NotFound(w, r)
		return
	}

	format, err := chart.ParseFormat(strings.TrimPrefix(ext, "."))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	img, err := h.store.Chart(view, format)
	if err != nil {
		if goerr.HasTag(err, chart.ErrTagNoData) {
			http.Error(w, "no data to draw", http.StatusNotFound)
			return
		}
		apperr.Handle(r.Context(), err)
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if _, err := w.Write(img); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write chart image", "error", err)
	}
}

func (h *dashboardHandler) handleFrame(w http.ResponseWriter, r *http.Request) {
	frame := h.store.Latest()
	if frame == nil {
		writeError(w, r, goerr.New("no frame rendered yet"), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, r, http.StatusOK, frame)
}

func (h *dashboardHandler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, newSettingsPayload(h.dashboard.Settings()))
}

func (h *dashboardHandler) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var payload settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid settings payload"), http.StatusBadRequest)
		return
	}

	settings, err := payload.apply(h.dashboard.Settings())
	if err == nil {
		err = h.dashboard.UpdateSettings(settings)
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrInvalidSettings) {
			status = http.StatusBadRequest
		}
		writeError(w, r, err, status)
		return
	}

	ctxlog.From(r.Context()).Info("Dashboard settings updated",
		"interval", settings.Interval,
		"live", settings.Live,
	)
	writeJSON(w, r, http.StatusOK, newSettingsPayload(settings))
}

func fmtMarks(v float64) string {
	return strconv.FormatFloat(model.Round2(v), 'f', -1, 64)
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("15:04:05")
}
