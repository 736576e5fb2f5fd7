package manifest

import (
	"strconv"
	"strings"
)

// DesktopEntry renders the launcher file for an app whose binary is
// installed at binPath.
func (a *App) DesktopEntry(binPath string) string {
	var b strings.Builder

	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	b.WriteString("Name=" + a.Name + "\n")
	if a.Comment != "" {
		b.WriteString("Comment=" + a.Comment + "\n")
	}
	b.WriteString("Exec=" + quoteExec(binPath) + " %F\n")
	b.WriteString("Icon=" + a.Icon + "\n")
	b.WriteString("Terminal=false\n")
	if len(a.Categories) > 0 {
		b.WriteString("Categories=" + joinList(a.Categories) + "\n")
	}
	b.WriteString("StartupNotify=" + strconv.FormatBool(a.StartupNotify) + "\n")
	if len(a.MimeTypes) > 0 {
		b.WriteString("MimeType=" + joinList(a.MimeTypes) + "\n")
	}

	return b.String()
}

// quoteExec quotes a path for the Exec key. Inside the quotes '"', '`', '$'
// and '\' are escaped with a backslash. The string value escape runs before
// the Exec quoting, so a literal backslash is written as four.
func quoteExec(path string) string {
	r := strings.NewReplacer(`\`, `\\\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(path) + `"`
}

// joinList renders a desktop entry list value: items separated and
// terminated by ';'
func joinList(items []string) string {
	return strings.Join(items, ";") + ";"
}
