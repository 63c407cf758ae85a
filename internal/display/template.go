package display

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// templateFuncs provides sprig's functions plus game specific helpers.
var templateFuncs = func() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["money"] = Money
	return funcs
}()

// Money formats an amount of in-game money, e.g. $12,500.
func Money(amount int) string {
	if amount < 0 {
		return printer.Sprintf("-$%d", -amount)
	}
	return printer.Sprintf("$%d", amount)
}

// Template is a parsed message template.
type Template struct {
	tmpl *template.Template
}

// ParseTemplate parses tmplStr with the display helpers available.
func ParseTemplate(name, tmplStr string) (*Template, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs).Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	return &Template{tmpl: tmpl}, nil
}

// MustParseTemplate is ParseTemplate for templates known at compile time.
func MustParseTemplate(name, tmplStr string) *Template {
	t, err := ParseTemplate(name, tmplStr)
	if err != nil {
		panic(err)
	}
	return t
}

// Expand executes the template with data.
func (t *Template) Expand(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", t.tmpl.Name(), err)
	}
	return buf.String(), nil
}

// ExpandTemplate parses and expands tmplStr in one step.
func ExpandTemplate(tmplStr string, data any) (string, error) {
	t, err := ParseTemplate("", tmplStr)
	if err != nil {
		return "", err
	}
	return t.Expand(data)
}
