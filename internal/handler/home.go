package handler

import (
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/accounts/internal/logging"
	"github.com/msomdec/accounts/internal/view"
)

// HandleHome renders the account page.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.AccountPage(UserFromContext(r.Context())).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render account page", "error", err)
	}
}

// HandleAccountStatus streams the current account card as a Datastar patch.
// GET /account/status
func HandleAccountStatus(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(view.AccountCard(UserFromContext(r.Context()))); err != nil {
		logging.FromContext(r.Context()).Error("patch account card", "error", err)
	}
}
