package handlers

import (
	"net/http"

	"github.com/satheeshds/autodealer/models"
	"github.com/satheeshds/autodealer/session"
)

type labelInput struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

type labelResult struct {
	Added  bool     `json:"added"`
	Labels []string `json:"labels"`
}

// ListLabels suggests labels from the session vocabulary
// @Summary      Suggest labels
// @Description  Labels of the given kind that contain q, case-insensitively. Without q, the whole vocabulary.
// @Tags         labels
// @Produce      json
// @Param        kind  query     string  true   "expense or document"
// @Param        q     query     string  false  "Substring to match"
// @Success      200   {object}  Response{data=[]string}
// @Failure      400   {object}  Response{error=string}
// @Router       /labels [get]
// @Security     BearerAuth
func (h *Handler) ListLabels(w http.ResponseWriter, r *http.Request) {
	kind, ok := session.ParseLabelKind(r.URL.Query().Get("kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "kind must be expense or document")
		return
	}
	writeJSON(w, http.StatusOK, sessionFrom(r.Context()).Suggest(kind, r.URL.Query().Get("q")))
}

// AddLabel adds a custom label to the session vocabulary
// @Summary      Add label
// @Description  Adds a label unless one with the same text (ignoring case) exists. Labels live for the session only.
// @Tags         labels
// @Accept       json
// @Produce      json
// @Param        label  body      labelInput  true  "Label"
// @Success      201    {object}  Response{data=labelResult}
// @Success      200    {object}  Response{data=labelResult}
// @Failure      400    {object}  Response{error=string}
// @Router       /labels [post]
// @Security     BearerAuth
func (h *Handler) AddLabel(w http.ResponseWriter, r *http.Request) {
	var input labelInput
	if !decodeJSON(w, r, &input) {
		return
	}
	kind, ok := session.ParseLabelKind(input.Kind)
	if !ok {
		writeError(w, http.StatusBadRequest, "kind must be expense or document")
		return
	}
	label := models.Clean(input.Label)
	if label == "" {
		writeError(w, http.StatusBadRequest, "label is required")
		return
	}

	s := sessionFrom(r.Context())
	res := labelResult{Added: s.AddLabel(kind, label), Labels: s.Labels(kind)}
	status := http.StatusOK
	if res.Added {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}
