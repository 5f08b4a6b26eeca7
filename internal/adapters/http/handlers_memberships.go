package web

import (
	"net/http"

	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/domain/membership"
)

type membershipJSON struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"durationDays"`
}

func toMembershipJSON(m membership.Membership) membershipJSON {
	return membershipJSON{ID: m.ID, Name: m.Name, Price: m.Price, DurationDays: m.DurationDays}
}

type membershipRequest struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"durationDays"`
}

// handleListMemberships handles GET /api/memberships
func (a *app) handleListMemberships(w http.ResponseWriter, r *http.Request) {
	plans, err := a.stores.MembershipStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]membershipJSON, 0, len(plans))
	for _, m := range plans {
		out = append(out, toMembershipJSON(m))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateMembership handles POST /api/memberships
func (a *app) handleCreateMembership(w http.ResponseWriter, r *http.Request) {
	a.saveMembership(w, r, "", http.StatusCreated)
}

// handleUpdateMembership handles PUT /api/memberships/{id}
func (a *app) handleUpdateMembership(w http.ResponseWriter, r *http.Request) {
	a.saveMembership(w, r, r.PathValue("id"), http.StatusOK)
}

func (a *app) saveMembership(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req membershipRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	m, err := orchestrators.ExecuteSaveMembership(r.Context(), orchestrators.SaveMembershipInput{
		ID:           id,
		Name:         req.Name,
		Price:        req.Price,
		DurationDays: req.DurationDays,
	}, orchestrators.SaveMembershipDeps{MembershipStore: a.stores.MembershipStore, GenerateID: a.generateID})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, status, toMembershipJSON(m))
}

// handleDeleteMembership handles DELETE /api/memberships/{id}
func (a *app) handleDeleteMembership(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteMembership(r.Context(), r.PathValue("id"),
		orchestrators.DeleteMembershipDeps{MembershipStore: a.stores.MembershipStore})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
