package pages

import (
	"context"

	"github.com/vcrobe/nojs-messenger/internal/api"
	"github.com/vcrobe/nojs-messenger/runtime"
)

const (
	profilePath = "/settings"

	mismatchMessage = "Passwords do not match"
)

// ProfileEdit is the profile form, filled from the signed-in user.
func ProfileEdit(deps *Deps) runtime.Factory {
	return formFactory(deps, formDef{
		id:       "profile-form",
		template: "profile-form",
		title:    "Edit profile",
		submit:   "Save",
		prefill:  true,
		fields: []field{
			{name: "email", label: "Email", typ: "email"},
			{name: "login", label: "Login"},
			{name: "first_name", label: "First name"},
			{name: "second_name", label: "Last name"},
			{name: "display_name", label: "Display name"},
			{name: "phone", label: "Phone", typ: "tel"},
		},
		send: func(ctx context.Context, f *formPage, v map[string]string) error {
			u, err := f.deps.API.UpdateProfile(ctx, api.ProfileRequest{
				FirstName:   v["first_name"],
				SecondName:  v["second_name"],
				DisplayName: v["display_name"],
				Login:       v["login"],
				Email:       v["email"],
				Phone:       v["phone"],
			})
			if err != nil {
				return err
			}
			f.deps.Session.SetUser(u)
			return f.deps.Nav.Go(profilePath)
		},
	})
}

// Password is the password change form.
func Password(deps *Deps) runtime.Factory {
	return formFactory(deps, formDef{
		id:       "password-form",
		template: "profile-form",
		title:    "Change password",
		submit:   "Save",
		fields: []field{
			{name: "oldPassword", label: "Current password", typ: "password"},
			{name: "newPassword", label: "New password", typ: "password"},
			{name: "newPasswordRepeat", label: "Repeat new password", typ: "password"},
		},
		check: func(f *formPage, v map[string]string) bool {
			if v["newPassword"] == v["newPasswordRepeat"] {
				return true
			}
			if in := f.fields.Get("newPasswordRepeat"); in != nil {
				_ = in.SetError(mismatchMessage)
			}
			return false
		},
		send: func(ctx context.Context, f *formPage, v map[string]string) error {
			err := f.deps.API.UpdatePassword(ctx, api.PasswordRequest{
				OldPassword: v["oldPassword"],
				NewPassword: v["newPassword"],
			})
			if err != nil {
				return err
			}
			return f.deps.Nav.Go(profilePath)
		},
	})
}
