package adminapi

import (
	"net/http"

	"github.com/marmos91/notifyd/pkg/registry"
)

// Handler serves the admin/introspection endpoints, backed by a live
// registry. There is no client-facing auth here: the admin
// endpoint is a local operator tool, not part of the client protocol.
type Handler struct {
	reg *registry.Registry
}

// NewHandler creates an admin handler over reg.
func NewHandler(reg *registry.Registry) *Handler {
	return &Handler{reg: reg}
}

// Healthz handles GET /healthz - liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "notifyd",
	}))
}

// nameView is the read-only projection of a name record exposed by
// /debug/names. It deliberately omits client transport parameters (file
// descriptors, port connections) which aren't meaningful to serialize.
type nameView struct {
	Name       string `json:"name"`
	Val        uint32 `json:"val"`
	State      uint64 `json:"state"`
	UID        uint32 `json:"uid"`
	GID        uint32 `json:"gid"`
	Access     uint16 `json:"access"`
	Refcount   int    `json:"refcount"`
	Controlled bool   `json:"controlled"`
	Clients    int    `json:"clients"`
}

// DebugNames handles GET /debug/names - a read-only dump of the name table
// for operational visibility (bulk-introspection counters, per-name
// detail).
func (h *Handler) DebugNames(w http.ResponseWriter, r *http.Request) {
	names := h.reg.DebugNames()

	views := make([]nameView, 0, len(names))
	for _, n := range names {
		views = append(views, nameView{
			Name:       n.Name,
			Val:        n.Val,
			State:      n.State,
			UID:        n.UID,
			GID:        n.GID,
			Access:     n.Access,
			Refcount:   n.Refcount(),
			Controlled: n.Controlled,
			Clients:    len(n.Clients),
		})
	}

	writeJSON(w, http.StatusOK, okResponse(views))
}

// statsResponse mirrors registry.Stats for JSON serialization.
type statsResponse struct {
	Names           int    `json:"names"`
	Clients         int    `json:"clients"`
	ControlledNames int    `json:"controlled_names"`
	NextID          uint32 `json:"next_id"`
	FreeListLen     int    `json:"free_list_len"`
}

// Stats handles GET /debug/stats - the bulk registry counters, also used by
// `notifyd status`.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	s := h.reg.Stats()
	writeJSON(w, http.StatusOK, okResponse(statsResponse{
		Names:           s.Names,
		Clients:         s.Clients,
		ControlledNames: s.ControlledNames,
		NextID:          s.NextID,
		FreeListLen:     s.FreeListLen,
	}))
}
