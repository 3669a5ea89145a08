package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/onestore/internal/format"
	"github.com/joshuapare/onestore/internal/testutil"
	"github.com/joshuapare/onestore/internal/testutil/onefile"
	"github.com/joshuapare/onestore/onestore/walker"
	"github.com/joshuapare/onestore/pkg/types"
)

func walkSection(t *testing.T) walker.Structure {
	t.Helper()
	page := onefile.ExtendedGUID(0x10, 1)
	s := onefile.Section{Spaces: []onefile.ObjectSpace{{
		GOSID: onefile.ExtendedGUID(0x01, 1),
		Revisions: []onefile.Revision{{
			RID:  onefile.ExtendedGUID(0x02, 1),
			Role: 1,
			Root: page,
			Objects: []onefile.Object{
				{OID: page, JCID: onefile.JCIDPageNode, Props: []onefile.Prop{
					onefile.Text(format.CachedTitleString, "Quarterly planning"),
					onefile.Blob(format.NotebookManagementEntityGUID, bytes.Repeat([]byte{0xAB}, 90)),
				}},
			},
		}},
	}}}
	doc := testutil.BuildDocument(t, s.Build())
	res, err := walker.New(doc, walker.DefaultOptions(), types.Sinks{}).Walk()
	require.NoError(t, err)
	return res
}

func TestPrinter_JSON(t *testing.T) {
	res := walkSection(t)

	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).Print(res))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Contains(t, decoded, "header")
	require.Contains(t, decoded, "rootFileNodes")
	require.Contains(t, buf.String(), `"dataUnicode16LE": "Quarterly planning"`)
}

func TestPrinter_Text(t *testing.T) {
	res := walkSection(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatText
	require.NoError(t, New(&buf, opts).Print(res))

	output := buf.String()
	t.Logf("Text output:\n%s", output)

	require.Contains(t, output, "rootFileNodes:\n  [0]\n    Revision\n")
	require.Contains(t, output, `dataUnicode16LE: "Quarterly planning"`)
	require.Contains(t, output, "(truncated, 120 total bytes)")
	require.Contains(t, output, "offsets: 1/1")
}

func TestPrinter_TextMaxDepth(t *testing.T) {
	res := walkSection(t)

	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatText
	opts.MaxDepth = 1
	require.NoError(t, New(&buf, opts).Print(res))

	output := buf.String()
	require.Contains(t, output, "header: ...\n")
	require.Contains(t, output, "rootFileNodes: ...\n")
	require.Equal(t, 2, strings.Count(output, "\n"))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("text")
	require.NoError(t, err)
	require.Equal(t, FormatText, f)

	_, err = ParseFormat("reg")
	require.Error(t, err)
}
