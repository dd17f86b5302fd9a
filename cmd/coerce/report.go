package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/reoring/coerce/diag"
)

// reporter renders diagnostics for humans. Colors follow color.NoColor.
type reporter struct {
	w       io.Writer
	showRaw bool

	header  *color.Color
	errTag  *color.Color
	warnTag *color.Color
	path    *color.Color
	faint   *color.Color
}

func newReporter(w io.Writer, showRaw bool) *reporter {
	return &reporter{
		w:       w,
		showRaw: showRaw,
		header:  color.New(color.FgRed, color.Bold),
		errTag:  color.New(color.FgRed),
		warnTag: color.New(color.FgYellow),
		path:    color.New(color.FgCyan),
		faint:   color.New(color.Faint),
	}
}

func (r *reporter) failure(name string, de *diag.DeserializeError) {
	fmt.Fprintf(r.w, "%s %s\n", r.header.Sprintf("%s:", name), de.Error())
	r.issues(de.Sorted())
	if r.showRaw {
		fmt.Fprintln(r.w, r.faint.Sprint("----- raw input -----"))
		raw := de.Raw
		if !strings.HasSuffix(raw, "\n") {
			raw += "\n"
		}
		fmt.Fprint(r.w, r.faint.Sprint(raw))
	}
}

func (r *reporter) warnings(name string, ws diag.Issues) {
	if len(ws) == 0 {
		return
	}
	fmt.Fprintf(r.w, "%s %d warnings\n", r.warnTag.Sprintf("%s:", name), len(ws))
	r.issues(ws)
}

func (r *reporter) issues(list diag.Issues) {
	for _, it := range list {
		tag := r.errTag
		if it.Severity == diag.SeverityWarning {
			tag = r.warnTag
		}
		fmt.Fprintf(r.w, "  %s %s: %s %s\n",
			tag.Sprintf("[%s]", it.Severity),
			r.path.Sprint(it.Path),
			it.Message,
			r.faint.Sprintf("(%s)", it.Code))
	}
}
