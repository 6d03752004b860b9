// Package report prints generated drafts for an operator to copy.
package report

import (
	"fmt"
	"io"
	"strings"
)

const (
	Rule   = "========================================"
	Banner = "以下をコピーしてXに投稿できます："
)

type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Report writes text unchanged between banner lines.
func (c *Console) Report(text string) error {
	var b strings.Builder
	b.WriteString("\n" + Rule + "\n")
	b.WriteString(Banner + "\n")
	b.WriteString(Rule + "\n")
	b.WriteString(text + "\n")
	b.WriteString(Rule + "\n\n")
	if _, err := io.WriteString(c.w, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
