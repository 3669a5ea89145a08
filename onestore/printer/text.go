package printer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/joshuapare/onestore/onestore/walker"
)

// typeKey names the structure kind; it is printed as the node heading.
const typeKey = "oneNoteType"

// printText prints s as an indented tree:
//
//	FileNode
//	  fileNodeId: 0x4
//	  childFileNodeList:
//	    FileNodeList
func (p *Printer) printText(s walker.Structure) error {
	return p.textStructure(s, 0)
}

func (p *Printer) indent(depth int) string {
	return strings.Repeat(" ", depth*p.opts.IndentSize)
}

func (p *Printer) textStructure(s walker.Structure, depth int) error {
	indent := p.indent(depth)
	if t, ok := s[typeKey]; ok {
		if _, err := fmt.Fprintf(p.writer, "%s%v\n", indent, t); err != nil {
			return err
		}
		depth++
		indent = p.indent(depth)
	}

	keys := lo.Without(lo.Keys(s), typeKey)
	slices.Sort(keys)
	for _, k := range keys {
		switch v := s[k].(type) {
		case walker.Structure:
			if err := p.textNested(k, depth, func(d int) error { return p.textStructure(v, d) }); err != nil {
				return err
			}
		case []walker.Structure:
			if err := p.textNested(k, depth, func(d int) error { return p.textList(v, d) }); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintf(p.writer, "%s%s: %s\n", indent, k, p.scalar(v)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Printer) textNested(key string, depth int, body func(int) error) error {
	indent := p.indent(depth)
	if p.opts.MaxDepth > 0 && depth+1 >= p.opts.MaxDepth {
		_, err := fmt.Fprintf(p.writer, "%s%s: ...\n", indent, key)
		return err
	}
	if _, err := fmt.Fprintf(p.writer, "%s%s:\n", indent, key); err != nil {
		return err
	}
	return body(depth + 1)
}

func (p *Printer) textList(items []walker.Structure, depth int) error {
	for i, item := range items {
		if _, err := fmt.Fprintf(p.writer, "%s[%d]\n", p.indent(depth), i); err != nil {
			return err
		}
		if err := p.textStructure(item, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) scalar(v any) string {
	switch v := v.(type) {
	case string:
		if limit := p.opts.MaxValueLength; limit > 0 && len(v) > limit {
			return fmt.Sprintf("%q (truncated, %d total bytes)", v[:limit], len(v))
		}
		return fmt.Sprintf("%q", v)
	case []int:
		return strings.Join(lo.Map(v, func(i int, _ int) string { return fmt.Sprint(i) }), "/")
	default:
		return fmt.Sprint(v)
	}
}
