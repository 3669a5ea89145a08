package printer

import (
	"encoding/json"
	"strings"

	"github.com/joshuapare/onestore/onestore/walker"
)

// printJSON prints s as indented JSON. Map keys are emitted in sorted order.
func (p *Printer) printJSON(s walker.Structure) error {
	enc := json.NewEncoder(p.writer)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", p.opts.IndentSize))
	return enc.Encode(s)
}
