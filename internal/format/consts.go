// Package format houses low-level decoders for the MS-ONESTORE revision
// store file format used by OneNote. The decoders are pure functions over
// byte slices; higher-level packages own all I/O and orchestration.
package format

const (
	// HeaderSize is the size of the OneStore header at offset 0.
	HeaderSize = 1024

	// FragmentMagic opens every FileNodeListFragment.
	FragmentMagic uint64 = 0xA4567AB1F5F7F4C4
	// FragmentFooter closes every FileNodeListFragment.
	FragmentFooter uint64 = 0x8BC215C38233BA4B

	// FragmentHeaderSize is magic (8) + FileNodeListID (4) + nFragmentSequence (4).
	FragmentHeaderSize = 16
	// FragmentTrailerSize is nextFragment FCR64x32 (12) + footer (8).
	FragmentTrailerSize = FCR64x32Size + 8
	// FragmentMinNodeRoom is the space a fragment must still have after its
	// last parsed node for another node to be attempted.
	FragmentMinNodeRoom = 24

	// FileDataStoreObject framing.
	FileDataStoreObjectHeaderSize = GUIDSize + 8 + 4 + 8
	FileDataStoreObjectFooterSize = GUIDSize
	FileDataStoreAlignment        = 8

	// IFNDFPrefix introduces a file data store reference in a StringInStorageBuffer.
	IFNDFPrefix = "<ifndf>"
)

// Well-known header GUIDs.
var (
	// FileFormatRevisionStore identifies the MS-ONESTORE revision store layout.
	FileFormatRevisionStore = MustGUID("{109ADD3F-911B-49F5-A5D0-1791EDC8AED8}")
	// FileFormatAlternativePackaging identifies the FSSHTTPB alternative packaging.
	FileFormatAlternativePackaging = MustGUID("{638DE92F-A6D4-4BC1-9A36-B3FC2511A5B7}")
	// FileTypeOne identifies a .one section file.
	FileTypeOne = MustGUID("{7B5C52E4-D88C-4DA7-AEB1-5378D02996D3}")
	// FileTypeOneToc2 identifies a .onetoc2 table of contents file.
	FileTypeOneToc2 = MustGUID("{43FF2FA1-EFD9-4C76-9EE2-10EA5722765F}")
	// FileDataStoreObjectHeaderGUID opens a FileDataStoreObject.
	FileDataStoreObjectHeaderGUID = MustGUID("{BDE316E7-2665-4511-A4C4-8D4D0B7A9EAC}")
	// FileDataStoreObjectFooterGUID closes a FileDataStoreObject.
	FileDataStoreObjectFooterGUID = MustGUID("{71FBA722-0F79-4A0B-BB13-899256426B24}")
)
