package handler

import (
	"net/http"
	"time"

	"pixstore/internal/access"
)

// Cookie names shared with the outer storefront. The session cookies are
// written by the auth layer (outside this core); the customer email cookie
// is written here at anonymous checkout.
const (
	cookieAdminSession  = "admin_session"
	cookieSessionUser   = "session_user"
	cookieSessionName   = "session_name"
	cookieSessionEmail  = "session_email"
	cookieCustomerEmail = "customer_email"
)

const customerCookieMaxAge = 30 * 24 * time.Hour

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// viewerFromRequest assembles the three identity signals the access
// resolver consumes.
func viewerFromRequest(r *http.Request) access.Viewer {
	return access.Viewer{
		Operator:    cookieValue(r, cookieAdminSession) == "true",
		UserID:      cookieValue(r, cookieSessionUser),
		CookieEmail: cookieValue(r, cookieCustomerEmail),
	}
}

func setCustomerEmailCookie(w http.ResponseWriter, email string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieCustomerEmail,
		Value:    email,
		Path:     "/",
		MaxAge:   int(customerCookieMaxAge.Seconds()),
		HttpOnly: true,
	})
}
