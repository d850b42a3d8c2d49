package handlers

import (
	"net/url"
	"strings"

	"conspect-web/internal/middlewares"
	"conspect-web/internal/web"
)

// RedactEmail is used to redact emails (mostly for logs)
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return ""
	}

	localRunes := []rune(parts[0])
	domain := parts[1]

	if len(localRunes) <= 2 {
		return strings.Repeat("*", len(localRunes)) + "@" + domain
	}

	first := string(localRunes[0])
	last := string(localRunes[len(localRunes)-1])
	middle := strings.Repeat("*", len(localRunes)-2)

	return first + middle + last + "@" + domain
}

// basePage fills in the layout data shared by every page, including who is signed in.
func basePage(ctx *middlewares.AppContext, title string) web.Page {
	page := web.Page{Title: title}
	if user, ok := ctx.SessionManager.GetUser(ctx); ok {
		page.User = user
	}
	return page
}

// localRedirect returns target when it is a path on this site outside /auth/, "/" otherwise.
func localRedirect(target string) string {
	if target == "" {
		return "/"
	}

	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return "/"
	}

	if strings.HasPrefix(u.Path, "/auth/") {
		return "/"
	}

	return u.RequestURI()
}
