package pages

import (
	"context"
	"errors"
	"net/http"

	"github.com/vcrobe/nojs-messenger/internal/api"
	"github.com/vcrobe/nojs-messenger/runtime"
)

// reasonSignedIn is the API's answer to a sign-in while a session is open.
const reasonSignedIn = "User already in system"

// Login is the sign-in page.
func Login(deps *Deps) runtime.Factory {
	return formFactory(deps, formDef{
		id:       "login-form",
		template: "auth-form",
		title:    "Sign in",
		submit:   "Sign in",
		linkHref: "/sign-up",
		linkText: "Create an account",
		public:   true,
		fields: []field{
			{name: "login", label: "Login", placeholder: "Enter login"},
			{name: "password", label: "Password", typ: "password", placeholder: "Enter password"},
		},
		send: func(ctx context.Context, f *formPage, v map[string]string) error {
			err := f.deps.API.SignIn(ctx, api.SignInRequest{Login: v["login"], Password: v["password"]})
			var apiErr *api.Error
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest && apiErr.Reason == reasonSignedIn {
				err = nil
			}
			if err != nil {
				return err
			}
			return enter(ctx, f.deps)
		},
	})
}

// SignUp is the registration page.
func SignUp(deps *Deps) runtime.Factory {
	return formFactory(deps, formDef{
		id:       "sign-up-form",
		template: "auth-form",
		title:    "Sign up",
		submit:   "Create account",
		linkHref: "/",
		linkText: "Sign in",
		public:   true,
		fields: []field{
			{name: "email", label: "Email", typ: "email"},
			{name: "login", label: "Login"},
			{name: "first_name", label: "First name"},
			{name: "second_name", label: "Last name"},
			{name: "phone", label: "Phone", typ: "tel"},
			{name: "password", label: "Password", typ: "password"},
		},
		send: func(ctx context.Context, f *formPage, v map[string]string) error {
			_, err := f.deps.API.SignUp(ctx, api.SignUpRequest{
				FirstName:  v["first_name"],
				SecondName: v["second_name"],
				Login:      v["login"],
				Email:      v["email"],
				Password:   v["password"],
				Phone:      v["phone"],
			})
			if err != nil {
				return err
			}
			return enter(ctx, f.deps)
		},
	})
}

// enter marks the session as signed in, loads the user and opens the home page.
func enter(ctx context.Context, deps *Deps) error {
	deps.Session.SetUser(nil)
	if _, err := deps.Session.Load(ctx, deps.API); err != nil {
		return err
	}
	deps.Nav.SetAuth(true)
	return deps.Nav.Go(deps.Config.Router.HomePath)
}
