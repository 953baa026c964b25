package api

import (
	"embed"
	"html/template"

	"user-registration/pkg/form"
)

//go:embed templates/*.html
var templateFS embed.FS

type fieldView struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Value       string
	Error       string
	Disabled    bool
}

func field(name, label, typ, placeholder string, v form.View) fieldView {
	value, _ := v.Values.Get(name)
	return fieldView{
		Name:        name,
		Label:       label,
		Type:        typ,
		Placeholder: placeholder,
		Value:       value,
		Error:       v.Errors[name],
		Disabled:    v.Disabled,
	}
}

// Templates parses the embedded HTML templates.
func Templates() *template.Template {
	return template.Must(template.New("").
		Funcs(template.FuncMap{"field": field}).
		ParseFS(templateFS, "templates/*.html"))
}
