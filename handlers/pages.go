package handlers

import (
	"fmt"
	"html"
	"net/http"
)

// Page rendering for the browser-facing routes. The pages are small enough
// that they are built inline rather than through a template directory.

const pageStyle = `
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, sans-serif;
            background: #f0f2f5;
            color: #1a1a2e;
            min-height: 100vh;
            display: flex;
            justify-content: center;
            align-items: flex-start;
            padding: 40px 16px;
        }
        .container { width: 100%; max-width: 420px; }
        h1 { text-align: center; margin-bottom: 24px; font-size: 28px; color: #16213e; }
        .card {
            background: #fff;
            border-radius: 12px;
            box-shadow: 0 2px 12px rgba(0,0,0,0.08);
            padding: 32px;
            margin-bottom: 20px;
        }
        .error-banner {
            background: #fee2e2;
            border: 1px solid #fca5a5;
            color: #991b1b;
            padding: 12px;
            border-radius: 10px;
            text-align: center;
            margin-bottom: 20px;
            font-size: 14px;
        }
        label {
            display: block;
            font-size: 12px;
            color: #888;
            font-weight: 700;
            text-transform: uppercase;
            margin-bottom: 4px;
            letter-spacing: 0.5px;
        }
        input {
            width: 100%;
            padding: 10px;
            margin-bottom: 16px;
            border: 1px solid #e5e7eb;
            border-radius: 8px;
            font-size: 15px;
        }
        button {
            width: 100%;
            padding: 12px;
            border: none;
            border-radius: 8px;
            background: #0f3460;
            color: #fff;
            font-size: 15px;
            font-weight: 600;
            cursor: pointer;
        }
        .page-link {
            display: block;
            text-align: center;
            margin-top: 16px;
            color: #0f3460;
            font-size: 14px;
        }
`

// renderPage writes a full HTML document wrapping body in the shared layout.
func renderPage(w http.ResponseWriter, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s - Todo List</title>
    <style>%s</style>
</head>
<body>
    <div class="container">
        <h1>📝 Todo List</h1>
        %s
    </div>
</body>
</html>`, title, pageStyle, body)

	w.Write([]byte(page))
}

// errorBanner renders the inline form error, or nothing when errMsg is empty.
func errorBanner(errMsg string) string {
	if errMsg == "" {
		return ""
	}
	return fmt.Sprintf(`<div class="error-banner">%s</div>`, html.EscapeString(errMsg))
}

func renderLoginPage(w http.ResponseWriter, errMsg string) {
	body := fmt.Sprintf(`<div class="card">
            %s
            <form method="POST" action="/login">
                <label>Email</label>
                <input type="email" name="email" />
                <label>Password</label>
                <input type="password" name="password" />
                <button type="submit">Log In</button>
            </form>
        </div>
        <a class="page-link" href="/register">Need an account? Register</a>`, errorBanner(errMsg))

	renderPage(w, "Log In", body)
}

func renderRegisterPage(w http.ResponseWriter, errMsg string) {
	body := fmt.Sprintf(`<div class="card">
            %s
            <form method="POST" action="/register">
                <label>Email</label>
                <input type="email" name="email" />
                <label>Password</label>
                <input type="password" name="password" />
                <button type="submit">Register</button>
            </form>
        </div>
        <a class="page-link" href="/login">Already registered? Log in</a>`, errorBanner(errMsg))

	renderPage(w, "Register", body)
}

func renderHomePage(w http.ResponseWriter, email string, todoCount int) {
	body := fmt.Sprintf(`<div class="card">
            <p>Signed in as <strong>%s</strong></p>
            <p>You have %d todo(s). Manage them through the <code>/api/todos</code> endpoints.</p>
        </div>
        <a class="page-link" href="/logout">Log out</a>`, html.EscapeString(email), todoCount)

	renderPage(w, "Home", body)
}
