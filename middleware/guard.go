package middleware

import (
	"context"
	"net/http"
	"net/url"

	sessionguard "github.com/PLP-MERN-Stack-Development/mern-final-project-graceakhati-dev-sub001"
)

type sessionContextKey struct{}

// SessionFromContext returns the session a passing [Guard] stored on the
// request context.
func SessionFromContext(ctx context.Context) (sessionguard.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(sessionguard.Session)
	return sess, ok
}

// Guard evaluates the request path against the required roles before the
// wrapped handler runs. Denials answer with a redirect: to the login page
// (return path preserved as ?next=) when unauthenticated, to the
// unauthorized page when the role does not satisfy the requirement.
func Guard(authority *sessionguard.Authority, req sessionguard.AccessRequest) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authority == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			decision := authority.Evaluate(r.Context(), r.URL.Path, req)
			switch decision.Kind {
			case sessionguard.DecisionLogin:
				target := authority.LoginPath()
				if decision.ReturnPath != "" {
					target += "?next=" + url.QueryEscape(decision.ReturnPath)
				}
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			case sessionguard.DecisionUnauthorized:
				http.Redirect(w, r, decision.Path, http.StatusSeeOther)
				return
			}

			sess := authority.Current(r.Context())
			ctx := context.WithValue(r.Context(), sessionContextKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
