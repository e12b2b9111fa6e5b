package handler

import (
	"html/template"
	"net/http"
)

// storeNotFoundTemplate is the branded page rendered for unknown tenant
// hosts. It carries a call to action so a mistyped or lapsed subdomain still
// converts visitors.
var storeNotFoundTemplate = template.Must(template.New("store_not_found").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Store not found — QuickStore</title>
<style>
  body { font-family: -apple-system, system-ui, sans-serif; margin: 0; display: flex; min-height: 100vh; align-items: center; justify-content: center; background: #f8fafc; color: #0f172a; }
  main { text-align: center; padding: 2rem; max-width: 28rem; }
  h1 { font-size: 1.5rem; margin-bottom: .5rem; }
  p { color: #475569; line-height: 1.5; }
  a.cta { display: inline-block; margin-top: 1.5rem; padding: .75rem 1.5rem; border-radius: .5rem; background: #0f172a; color: #fff; text-decoration: none; }
</style>
</head>
<body>
<main>
  <h1>There&rsquo;s no store here</h1>
  <p>The address <strong>{{.Host}}</strong> isn&rsquo;t connected to a QuickStore shop. It may have moved, or the link might be mistyped.</p>
  <a class="cta" href="{{.SignupURL}}">Open your own store</a>
</main>
</body>
</html>
`))

// StoreNotFound returns the handler the dispatch middleware renders when a
// tenant host resolves to no live store.
func StoreNotFound(signupURL string) http.HandlerFunc {
	if signupURL == "" {
		signupURL = "https://quickstore.live/auth/register"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_ = storeNotFoundTemplate.Execute(w, map[string]string{
			"Host":      r.Host,
			"SignupURL": signupURL,
		})
	}
}
