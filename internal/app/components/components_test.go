package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vcrobe/nojs-messenger/dom"
	"github.com/vcrobe/nojs-messenger/props"
	"github.com/vcrobe/nojs-messenger/runtime"
)

func element(t *testing.T, c *runtime.Component) dom.Element {
	t.Helper()
	el, err := c.Content()
	require.NoError(t, err)
	return el
}

func TestInput_Render(t *testing.T) {
	// Arrange
	doc := dom.NewMemoryDocument()

	// Act
	in, err := NewInput(doc, props.Values{
		"label":       "Login",
		"name":        "login",
		"placeholder": "Your login",
		"value":       "ivan",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t,
		`<div class="input-group"><label for="login">Login</label>`+
			`<input id="login" name="login" placeholder="Your login" type="text" value="ivan"/>`+
			`<span class="underline"></span></div>`,
		element(t, in.Component()).InnerHTML())
	assert.Equal(t, "login", in.Name())
	assert.Equal(t, "ivan", in.Value())
}

func TestInput_ValidatesOnBlur(t *testing.T) {
	// Arrange
	doc := dom.NewMemoryDocument()
	in, err := NewInput(doc, props.Values{"name": "email", "type": "email"})
	require.NoError(t, err)
	el := element(t, in.Component())
	el.QuerySelector("input").SetValue("not-an-email")

	// Act
	el.QuerySelector("input").DispatchEvent(dom.NewEvent("focusout"))

	// Assert
	assert.Equal(t, "not-an-email", in.Value())
	assert.Equal(t, "Invalid email format", el.QuerySelector(".input-group__error").TextContent())
	assert.NotNil(t, el.QuerySelector(".input-group--error"))

	el.QuerySelector("input").SetValue("ivan@example.com")
	el.QuerySelector("input").DispatchEvent(dom.NewEvent("focusout"))
	assert.Nil(t, el.QuerySelector(".input-group__error"))
}

func TestInput_Required(t *testing.T) {
	doc := dom.NewMemoryDocument()
	in, err := NewInput(doc, props.Values{"name": "title", "required": true})
	require.NoError(t, err)

	assert.Equal(t, RequiredMessage, in.Validate())

	require.NoError(t, in.SetValue("General"))
	assert.Empty(t, in.Validate())
}

func TestInput_CustomEventsReplaceBlur(t *testing.T) {
	doc := dom.NewMemoryDocument()
	typed := 0
	in, err := NewInput(doc, props.Values{
		"name":            "email",
		runtime.EventsKey: runtime.Events{"input": func(dom.Event) { typed++ }},
	})
	require.NoError(t, err)
	field := element(t, in.Component()).QuerySelector("input")
	field.SetValue("bad")

	field.DispatchEvent(dom.NewEvent("focusout"))
	field.DispatchEvent(dom.NewEvent("input"))

	assert.Equal(t, 1, typed)
	assert.Nil(t, element(t, in.Component()).QuerySelector(".input-group__error"))
}

func TestInput_SetErrorKeepsValue(t *testing.T) {
	doc := dom.NewMemoryDocument()
	in, err := NewInput(doc, props.Values{"name": "login"})
	require.NoError(t, err)
	element(t, in.Component()).QuerySelector("input").SetValue("ivan")

	require.NoError(t, in.SetError("Login is taken"))

	assert.Equal(t, "ivan", in.Value())
	assert.Equal(t, "Login is taken", element(t, in.Component()).QuerySelector(".input-group__error").TextContent())
}

func TestButton_Render(t *testing.T) {
	// Arrange
	doc := dom.NewMemoryDocument()
	clicks := 0

	// Act
	b, err := NewButton(doc, props.Values{
		"text":       "Sign in",
		"type":       "submit",
		"full_width": true,
		"events":     runtime.Events{"click": func(dom.Event) { clicks++ }},
	})
	require.NoError(t, err)
	el := element(t, b.Component())
	el.Click()

	// Assert
	assert.Equal(t, `<span class="button__text">Sign in</span>`, el.InnerHTML())
	typ, _ := el.GetAttribute("type")
	assert.Equal(t, "submit", typ)
	class, _ := el.GetAttribute("class")
	assert.Equal(t, "button button--full", class)
	assert.Equal(t, 1, clicks)
}

func TestButton_Disabled(t *testing.T) {
	doc := dom.NewMemoryDocument()
	b, err := NewButton(doc, props.Values{"text": "Send"})
	require.NoError(t, err)
	el := element(t, b.Component())
	typ, _ := el.GetAttribute("type")
	assert.Equal(t, "button", typ)

	require.NoError(t, b.SetDisabled(true))
	assert.True(t, el.HasAttribute("disabled"))

	require.NoError(t, b.SetDisabled(false))
	assert.False(t, el.HasAttribute("disabled"))
}

func TestFields(t *testing.T) {
	// Arrange
	doc := dom.NewMemoryDocument()
	login, err := NewInput(doc, props.Values{"name": "login", "value": "ivan"})
	require.NoError(t, err)
	password, err := NewInput(doc, props.Values{"name": "password", "value": "short"})
	require.NoError(t, err)
	fields := Fields{login, password}

	// Act
	ok := fields.Validate()

	// Assert
	assert.False(t, ok)
	assert.Equal(t, map[string]string{"login": "ivan", "password": "short"}, fields.Values())
	assert.Same(t, password, fields.Get("password"))
	assert.Nil(t, fields.Get("email"))
	comps := fields.Components()
	assert.Same(t, login.Component(), comps["field-login"])
	assert.Len(t, comps, 2)

	require.NoError(t, password.SetValue("Secret123"))
	assert.True(t, fields.Validate())
}
