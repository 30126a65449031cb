package emit

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ariel-frischer/blockcraft/internal/block"
)

// ESLint renders a flat eslint.config.js. Plugins are package names; each is
// imported under an identifier derived from the package name.
func ESLint(e block.ESLint) (string, error) {
	var b strings.Builder
	b.WriteString("import eslint from \"@eslint/js\";\n")
	for _, plugin := range e.Plugins {
		fmt.Fprintf(&b, "import %s from %q;\n", PluginIdentifier(plugin), plugin)
	}
	b.WriteString("import tseslint from \"typescript-eslint\";\n\n")
	b.WriteString("export default tseslint.config(\n")

	if len(e.Ignores) > 0 {
		ignores, err := literal(e.Ignores, 1)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "\t{ ignores: %s },\n", ignores)
	}
	b.WriteString("\teslint.configs.recommended,\n")
	b.WriteString("\t...tseslint.configs.strict,\n")

	if len(e.Plugins) > 0 || len(e.Rules) > 0 || len(e.Settings) > 0 {
		b.WriteString("\t{\n")
		if len(e.Plugins) > 0 {
			b.WriteString("\t\tplugins: {\n")
			for _, plugin := range e.Plugins {
				id := PluginIdentifier(plugin)
				fmt.Fprintf(&b, "\t\t\t%s: %s,\n", id, id)
			}
			b.WriteString("\t\t},\n")
		}
		if len(e.Rules) > 0 {
			rules, err := literal(e.Rules, 2)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "\t\trules: %s,\n", rules)
		}
		if len(e.Settings) > 0 {
			settings, err := literal(e.Settings, 2)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "\t\tsettings: %s,\n", settings)
		}
		b.WriteString("\t},\n")
	}
	b.WriteString(");\n")
	return b.String(), nil
}

// literal renders v as JSON nested at the given tab depth, without the
// trailing newline.
func literal(v any, depth int) (string, error) {
	text, err := JSON(v)
	if err != nil {
		return "", err
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.ReplaceAll(text, "\n", "\n"+strings.Repeat("\t", depth)), nil
}

// PluginIdentifier turns an ESLint plugin package name into a JavaScript
// identifier: "@vitest/eslint-plugin" becomes "vitest" and
// "eslint-plugin-markdown" becomes "markdown".
func PluginIdentifier(pkg string) string {
	name := strings.TrimPrefix(pkg, "@")
	name = strings.TrimSuffix(name, "/eslint-plugin")
	name = strings.TrimPrefix(name, "eslint-plugin-")
	name = strings.ReplaceAll(name, "/eslint-plugin-", "-")

	var b strings.Builder
	upper := false
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = b.Len() > 0
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	id := b.String()
	if id == "" || unicode.IsDigit(rune(id[0])) {
		id = "plugin" + id
	}
	return id
}
