package format

import (
	"fmt"
	"strconv"
	"strings"
)

// PropertyKind is a PropertyID with the inline bool bit cleared. The values
// below are the OneNote (MS-ONE) property ids the extractor interprets.
type PropertyKind uint32

// Property kinds.
const (
	PageWidth                    PropertyKind = 0x14001C01
	PageHeight                   PropertyKind = 0x14001C02
	Bold                         PropertyKind = 0x08001C04
	Italic                       PropertyKind = 0x08001C05
	Underline                    PropertyKind = 0x08001C06
	Strikethrough                PropertyKind = 0x08001C07
	Font                         PropertyKind = 0x1C001C0A
	FontSize                     PropertyKind = 0x10001C0B
	FontColor                    PropertyKind = 0x14001C0C
	Highlight                    PropertyKind = 0x14001C0D
	RgOutlineIndentDistance      PropertyKind = 0x1C001C12
	ContentChildNodes            PropertyKind = 0x24001C1F
	ElementChildNodes            PropertyKind = 0x24001C20
	RichEditTextUnicode          PropertyKind = 0x1C001C22
	ListNodes                    PropertyKind = 0x24001C26
	NotebookManagementEntityGUID PropertyKind = 0x1C001C30
	LanguageID                   PropertyKind = 0x14001C3B
	PictureContainer             PropertyKind = 0x20001C3F
	TopologyCreationTimeStamp    PropertyKind = 0x18001C65
	CachedTitleString            PropertyKind = 0x1C001CF3
	CreationTimeStamp            PropertyKind = 0x14001D09
	CachedTitleStringFromPage    PropertyKind = 0x1C001D3C
	Author                       PropertyKind = 0x1C001D75
	LastModifiedTimeStamp        PropertyKind = 0x18001D77
	AuthorOriginal               PropertyKind = 0x20001D78
	AuthorMostRecent             PropertyKind = 0x20001D79
	LastModifiedTime             PropertyKind = 0x14001D7A
	EmbeddedFileContainer        PropertyKind = 0x20001D9B
	EmbeddedFileName             PropertyKind = 0x1C001D9C
	SourceFilepath               PropertyKind = 0x1C001D9D
	ImageFilename                PropertyKind = 0x1C001DD7
	TextRunIndex                 PropertyKind = 0x1C001E12
	TextRunFormatting            PropertyKind = 0x24001E13
	WzHyperlinkURL               PropertyKind = 0x1C001E20
	TextExtendedASCII            PropertyKind = 0x1C003498
	SectionDisplayName           PropertyKind = 0x1C00349B
)

var propertyKindNames = map[PropertyKind]string{
	PageWidth:                    "PageWidth",
	PageHeight:                   "PageHeight",
	Bold:                         "Bold",
	Italic:                       "Italic",
	Underline:                    "Underline",
	Strikethrough:                "Strikethrough",
	Font:                         "Font",
	FontSize:                     "FontSize",
	FontColor:                    "FontColor",
	Highlight:                    "Highlight",
	RgOutlineIndentDistance:      "RgOutlineIndentDistance",
	ContentChildNodes:            "ContentChildNodes",
	ElementChildNodes:            "ElementChildNodes",
	RichEditTextUnicode:          "RichEditTextUnicode",
	ListNodes:                    "ListNodes",
	NotebookManagementEntityGUID: "NotebookManagementEntityGuid",
	LanguageID:                   "LanguageID",
	PictureContainer:             "PictureContainer",
	TopologyCreationTimeStamp:    "TopologyCreationTimeStamp",
	CachedTitleString:            "CachedTitleString",
	CreationTimeStamp:            "CreationTimeStamp",
	CachedTitleStringFromPage:    "CachedTitleStringFromPage",
	Author:                       "Author",
	LastModifiedTimeStamp:        "LastModifiedTimeStamp",
	AuthorOriginal:               "AuthorOriginal",
	AuthorMostRecent:             "AuthorMostRecent",
	LastModifiedTime:             "LastModifiedTime",
	EmbeddedFileContainer:        "EmbeddedFileContainer",
	EmbeddedFileName:             "EmbeddedFileName",
	SourceFilepath:               "SourceFilepath",
	ImageFilename:                "ImageFilename",
	TextRunIndex:                 "TextRunIndex",
	TextRunFormatting:            "TextRunFormatting",
	WzHyperlinkURL:               "WzHyperlinkUrl",
	TextExtendedASCII:            "TextExtendedAscii",
	SectionDisplayName:           "SectionDisplayName",
}

func (k PropertyKind) String() string {
	if n, ok := propertyKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Unknown(0x%08X)", uint32(k))
}

// Type returns the property type encoded in the kind.
func (k PropertyKind) Type() PropertyType {
	return PropertyType((uint32(k) >> propTypeShift) & propTypeMask)
}

// IsBinary reports whether values of k are opaque bytes rather than text.
func (k PropertyKind) IsBinary() bool {
	switch k {
	case RgOutlineIndentDistance, NotebookManagementEntityGUID, RichEditTextUnicode:
		return true
	}
	return false
}

// ParsePropertyKind accepts a kind name (case-insensitive) or a hex literal
// such as 0x1C001CF3.
func ParsePropertyKind(s string) (PropertyKind, error) {
	s = strings.TrimSpace(s)
	for k, n := range propertyKindNames {
		if strings.EqualFold(n, s) {
			return k, nil
		}
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown property kind %q", s)
	}
	return PropertyKind(v) &^ propBoolBit, nil
}
