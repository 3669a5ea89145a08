package onenote_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/onestore/internal/format"
	"github.com/joshuapare/onestore/internal/testutil"
	"github.com/joshuapare/onestore/internal/testutil/onefile"
	"github.com/joshuapare/onestore/pkg/onenote"
	"github.com/joshuapare/onestore/pkg/types"
)

var (
	space = onefile.ExtendedGUID(0x01, 1)
	rev   = onefile.ExtendedGUID(0x02, 1)
	page  = onefile.ExtendedGUID(0x10, 1)
	para  = onefile.ExtendedGUID(0x11, 2)
	image = onefile.ExtendedGUID(0x12, 3)
	store = format.MustGUID("{9D1E4C27-3B5A-4F08-8C6D-2E7F1A0B5C01}")
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR")

func section() onefile.Section {
	return onefile.Section{
		Spaces: []onefile.ObjectSpace{{
			GOSID: space,
			Revisions: []onefile.Revision{{
				RID:  rev,
				Role: 1,
				Root: page,
				Objects: []onefile.Object{
					{OID: page, JCID: onefile.JCIDPageNode, Props: []onefile.Prop{
						onefile.Text(format.CachedTitleString, "Trip"),
						onefile.Text(format.Author, "Robin"),
						onefile.Scalar(format.CreationTimeStamp, 60),
						onefile.Refs(format.ElementChildNodes, para, image),
					}},
					{OID: para, JCID: onefile.JCIDRichTextOENode, Props: []onefile.Prop{
						onefile.Text(format.RichEditTextUnicode, "pack <boots>\x00"),
					}},
				},
				FileData: []onefile.FileDataObject{{OID: image, Store: store, Extension: "png"}},
			}},
		}},
		FileStore: []onefile.StoreEntry{{GUID: store, Data: pngBytes}},
	}
}

func TestParseBytes_Structured(t *testing.T) {
	var text onenote.TextSink
	meta := onenote.MapMetadata{}
	res, err := onenote.ParseBytes(section().Build(), types.Sinks{Content: &text, Metadata: meta}, onenote.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, onenote.ModeStructured, res.Mode)
	assert.NotNil(t, res.Document)
	assert.Contains(t, res.Structure, "rootFileNodes")
	assert.Equal(t, "Trip\nRobin\npack <boots>\n", text.String())

	assert.Equal(t, "0x1b0a", meta.Get("buildNumberCreated"))
	assert.Equal(t, "0x2a", meta.Get("ffvLastCodeThatWroteToThisFile"))
	assert.Equal(t, []string{"Robin"}, meta[onenote.KeyAuthors])
	assert.Equal(t, "315532860", meta.Get(onenote.KeyCreationTimestamp))
	assert.NotContains(t, meta, onenote.KeyLastModified)
}

func TestParseBytes_XHTMLAndAttachments(t *testing.T) {
	var out bytes.Buffer
	dir := &onenote.DirAttachments{Dir: t.TempDir()}
	_, err := onenote.ParseBytes(section().Build(), types.Sinks{
		Content:  onenote.NewXHTMLSink(&out),
		Embedded: dir,
	}, onenote.DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "<p>pack &lt;boots&gt;</p>\n")
	assert.Contains(t, out.String(), "<div class=\"embedded\"></div>")

	written := dir.Written()
	require.Len(t, written, 1)
	assert.Equal(t, "image/png", written[0].ContentType)
	assert.Equal(t, filepath.Join(dir.Dir, store.String()+".png"), written[0].Path)
	data, err := os.ReadFile(written[0].Path)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestParseFile(t *testing.T) {
	path := testutil.WriteTemp(t, "Trip.one", section().Build())
	var text onenote.TextSink
	res, err := onenote.ParseFile(path, types.Sinks{Content: &text}, onenote.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, onenote.ModeStructured, res.Mode)
	assert.Contains(t, text.String(), "pack <boots>")
}

func TestParseFile_Missing(t *testing.T) {
	_, err := onenote.ParseFile(filepath.Join(t.TempDir(), "absent.one"), types.Sinks{}, onenote.DefaultOptions())
	require.Error(t, err)
	kind, ok := types.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrKindIO, kind)
}

func TestParseBytes_AlternativePackaging(t *testing.T) {
	h := onefile.New().Header
	h.GUIDFileFormat = format.FileFormatAlternativePackaging
	data := append(format.EncodeHeader(h), []byte("\x00\x00Meeting notes for Tuesday\x00\x00")...)

	var text onenote.TextSink
	res, err := onenote.ParseBytes(data, types.Sinks{Content: &text}, onenote.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, onenote.ModeLegacy, res.Mode)
	assert.GreaterOrEqual(t, res.Strings, 1)
	assert.Contains(t, text.String(), "Meeting notes for Tuesday\n")
	assert.Nil(t, res.Document)
}

func TestParseBytes_NotOneStore(t *testing.T) {
	h := onefile.New().Header
	h.GUIDFileFormat = format.MustGUID("{00000000-1111-2222-3333-444444444444}")
	_, err := onenote.ParseBytes(format.EncodeHeader(h), types.Sinks{}, onenote.DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotOneStore)
	assert.Equal(t, types.ErrKindFormat, onenote.Classify(err))
}

func TestParseBytes_Truncated(t *testing.T) {
	_, err := onenote.ParseBytes([]byte("short"), types.Sinks{}, onenote.DefaultOptions())
	require.Error(t, err)
	kind, ok := types.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrKindFormat, kind)
}

func TestParseBytes_ResourceLimit(t *testing.T) {
	s := section()
	s.Spaces[0].Revisions[0].Objects[1].Props = []onefile.Prop{
		{ID: format.PropertyID{ID: 0x1C22, Type: format.PropFourBytesOfLengthFollowedByData}, Data: onefile.U32(0xFFFFFFF0)},
	}
	_, err := onenote.ParseBytes(s.Build(), types.Sinks{}, onenote.DefaultOptions())
	require.Error(t, err)
	kind, _ := types.KindOf(err)
	assert.Equal(t, types.ErrKindResourceLimit, kind)
}

func TestParseBytes_SinkError(t *testing.T) {
	dir := &onenote.DirAttachments{Dir: filepath.Join(t.TempDir(), "missing")}
	_, err := onenote.ParseBytes(section().Build(), types.Sinks{Embedded: dir}, onenote.DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write attachment")
}

func TestParseBytes_AllRevisions(t *testing.T) {
	s := section()
	draft := onefile.ExtendedGUID(0x13, 1)
	older := s.Spaces[0].Revisions[0]
	older.RID = onefile.ExtendedGUID(0x03, 1)
	older.Root = draft
	older.Objects = []onefile.Object{
		{OID: draft, JCID: onefile.JCIDPageNode, Props: []onefile.Prop{
			onefile.Text(format.CachedTitleString, "Draft"),
		}},
	}
	older.FileData = nil
	s.Spaces[0].Revisions = append([]onefile.Revision{older}, s.Spaces[0].Revisions...)

	latest := func(opts onenote.Options) string {
		var text onenote.TextSink
		_, err := onenote.ParseBytes(s.Build(), types.Sinks{Content: &text}, opts)
		require.NoError(t, err)
		return text.String()
	}

	assert.NotContains(t, latest(onenote.DefaultOptions()), "Draft")

	opts := onenote.DefaultOptions()
	opts.Walker.OnlyLatestRevision = false
	all := latest(opts)
	assert.Contains(t, all, "Draft")
	assert.Contains(t, all, "Trip")
}

// endCounter is a TextSink that counts EndDocument calls.
type endCounter struct {
	onenote.TextSink
	ended int
}

func (e *endCounter) EndDocument() error {
	e.ended++
	return nil
}

func TestParseBytes_EndDocument(t *testing.T) {
	h := onefile.New().Header
	h.GUIDFileFormat = format.FileFormatAlternativePackaging
	legacy := append(format.EncodeHeader(h), []byte("\x00\x00Meeting notes for Tuesday\x00\x00")...)

	for _, tt := range []struct {
		name string
		data []byte
		mode onenote.Mode
	}{
		{"structured", section().Build(), onenote.ModeStructured},
		{"legacy", legacy, onenote.ModeLegacy},
	} {
		t.Run(tt.name, func(t *testing.T) {
			sink := &endCounter{}
			res, err := onenote.ParseBytes(tt.data, types.Sinks{Content: sink}, onenote.DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.mode, res.Mode)
			assert.Equal(t, 1, sink.ended)
		})
	}
}

func TestParseBytes_EndDocumentNotCalledOnFailure(t *testing.T) {
	sink := &endCounter{}
	dir := &onenote.DirAttachments{Dir: filepath.Join(t.TempDir(), "missing")}
	_, err := onenote.ParseBytes(section().Build(), types.Sinks{Content: sink, Embedded: dir}, onenote.DefaultOptions())
	require.Error(t, err)
	assert.Zero(t, sink.ended)
}

func TestHeaderMetadata(t *testing.T) {
	h := onefile.New().Header
	h.CTransactionsInLog = 3
	h.CrcName = 0xBEEF
	meta := onenote.MapMetadata{}
	onenote.HeaderMetadata(&h, meta)

	want := map[string]string{
		"buildNumberCreated":         "0x1b0a",
		"buildNumberLastWroteToFile": "0x1b0b",
		"cTransactionsInLog":         "0x3",
		"crcName":                    "0xbeef",
		"rgbPlaceholder":             "0x0",
	}
	got := make(map[string]string, len(want))
	for k := range want {
		got[k] = meta.Get(k)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("header metadata mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, meta, 17)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want types.ErrKind
	}{
		{"typed", &types.Error{Kind: types.ErrKindUnsupported, Msg: "x"}, types.ErrKindUnsupported},
		{"memory limit", format.ErrMemoryLimitExceeded, types.ErrKindResourceLimit},
		{"closed", os.ErrClosed, types.ErrKindIO},
		{"path", &os.PathError{Op: "open", Path: "x", Err: os.ErrNotExist}, types.ErrKindIO},
		{"corrupt", format.ErrCyclicReference, types.ErrKindCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, onenote.Classify(tt.err))
		})
	}
}

func TestMapMetadata(t *testing.T) {
	m := onenote.MapMetadata{}
	m.Add("b", "1")
	m.Add("b", "2")
	m.Set("a", "x")
	m.Set("a", "y")
	assert.Equal(t, []string{"a", "b"}, m.Keys())
	assert.Equal(t, "y", m.Get("a"))
	assert.Equal(t, []string{"1", "2"}, m["b"])
	assert.Empty(t, m.Get("c"))
}

func TestXHTMLSink_Attributes(t *testing.T) {
	var out strings.Builder
	s := onenote.NewXHTMLSink(&out)
	require.NoError(t, s.StartElement("a", types.Attr{Name: "href", Value: `https://x.test/?a=1&b="2"`}))
	require.NoError(t, s.Characters("x & y"))
	require.NoError(t, s.EndElement("a"))
	require.NoError(t, s.Newline())
	assert.Equal(t, "<a href=\"https://x.test/?a=1&amp;b=&#34;2&#34;\">x &amp; y</a>\n", out.String())
}
