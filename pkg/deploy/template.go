package deploy

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// placeholderPattern matches the {UPPER_CASE} tokens the task-definition
// template uses; ordinary JSON braces never match.
var placeholderPattern = regexp.MustCompile(`\{[A-Z][A-Z0-9_]*\}`)

// RenderTemplate reads the template at src, substitutes every {KEY} token
// from vars, and writes the result to dst. It fails when any token is left
// unsubstituted so a stale template never reaches the registration call.
func RenderTemplate(src, dst string, vars map[string]string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("cannot read task-definition template: %w", err)
	}

	rendered := string(data)
	for key, value := range vars {
		rendered = strings.ReplaceAll(rendered, "{"+key+"}", value)
	}

	if leftover := placeholderPattern.FindString(rendered); leftover != "" {
		return fmt.Errorf("template %s still contains placeholder %s after substitution", src, leftover)
	}

	return os.WriteFile(dst, []byte(rendered), 0644)
}

// RenderedPath returns the working-copy path for a template, written beside
// the template itself.
func RenderedPath(templatePath string) string {
	dir := filepath.Dir(templatePath)
	base := strings.TrimSuffix(filepath.Base(templatePath), filepath.Ext(templatePath))
	return filepath.Join(dir, base+".rendered.json")
}
