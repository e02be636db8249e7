// Package view holds the HTML components for the account page.
package view

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/msomdec/accounts/internal/domain"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// AccountPage renders the full account page. The card is filled in by the
// /account/status SSE stream once the page loads.
func AccountPage(user *domain.User) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>Account</title>`+
			`<script type="module" src="`+datastarScript+`"></script>`+
			`</head><body><main data-init="@get('/account/status')">`); err != nil {
			return err
		}
		if err := AccountCard(user).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// AccountCard renders the signed-in user, or a prompt to sign in.
func AccountCard(user *domain.User) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if user == nil {
			_, err := io.WriteString(w, `<section id="account"><p>Not signed in.</p></section>`)
			return err
		}
		_, err := fmt.Fprintf(w,
			`<section id="account"><p>Signed in as <strong>%s</strong></p><p>Member since %s</p></section>`,
			templ.EscapeString(user.Email),
			templ.EscapeString(user.CreatedAt.Format(time.DateOnly)),
		)
		return err
	})
}
