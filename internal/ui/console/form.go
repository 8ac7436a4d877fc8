package console

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javierhbr/test-inventory-sub000/internal/admin"
	"github.com/javierhbr/test-inventory-sub000/internal/domain/registry"
)

// Form field indexes. Rules and recipes both have three fields.
const (
	fieldFirst = iota
	fieldSecond
	fieldThird
	fieldCount
)

// form edits the draft rule or recipe. List values are comma separated.
type form struct {
	kind   registry.GroupKind
	inputs [fieldCount]textinput.Model
	cursor int
}

func newForm(d admin.Draft) form {
	f := form{kind: d.Kind}
	var values [fieldCount]string
	if d.Kind == registry.KindRecipeGroup {
		values = [fieldCount]string{d.Recipe.Name, d.Recipe.Description, strings.Join(d.Recipe.Tags, ", ")}
	} else {
		values = [fieldCount]string{d.Rule.Key, d.Rule.ValidationPattern, strings.Join(d.Rule.Suggestions, ", ")}
	}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.placeholder(i)
		ti.SetValue(values[i])
		f.inputs[i] = ti
	}
	f.inputs[fieldFirst].Focus()
	return f
}

// labels returns the field titles for the draft kind.
func (f form) labels() [fieldCount]string {
	if f.kind == registry.KindRecipeGroup {
		return [fieldCount]string{"Name", "Description", "Tags"}
	}
	return [fieldCount]string{"Key", "Pattern", "Suggestions"}
}

func (f form) placeholder(i int) string {
	if f.kind == registry.KindRecipeGroup {
		return [fieldCount]string{"VIP checking", "markdown allowed", "customer-type:vip, smoke"}[i]
	}
	return [fieldCount]string{"customer-type", `^customer-type:(vip|standard)$`, "customer-type:vip, customer-type:standard"}[i]
}

func (f form) next() form {
	f.inputs[f.cursor].Blur()
	f.cursor = (f.cursor + 1) % fieldCount
	f.inputs[f.cursor].Focus()
	return f
}

func (f form) prev() form {
	f.inputs[f.cursor].Blur()
	f.cursor = (f.cursor + fieldCount - 1) % fieldCount
	f.inputs[f.cursor].Focus()
	return f
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.cursor], cmd = f.inputs[f.cursor].Update(msg)
	return f, cmd
}

// apply copies the field values into d. It is passed to admin.Console.UpdateDraft.
func (f form) apply(d *admin.Draft) {
	first := f.inputs[fieldFirst].Value()
	second := f.inputs[fieldSecond].Value()
	third := splitList(f.inputs[fieldThird].Value())
	if d.Kind == registry.KindRecipeGroup {
		d.Recipe.Name = first
		d.Recipe.Description = second
		d.Recipe.Tags = third
		return
	}
	d.Rule.Key = first
	d.Rule.ValidationPattern = second
	d.Rule.Suggestions = third
}

// splitList splits comma separated values, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
