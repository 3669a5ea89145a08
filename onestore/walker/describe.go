package walker

import (
	"encoding/hex"

	"github.com/joshuapare/onestore/internal/format"
	"github.com/joshuapare/onestore/onestore"
)

// HeaderStructure renders the file header for the structural result.
func HeaderStructure(h *format.Header) Structure {
	return Structure{
		"guidFileType":                          h.GUIDFileType.String(),
		"guidFile":                              h.GUIDFile.String(),
		"guidLegacyFileVersion":                 h.GUIDLegacyFileVersion.String(),
		"guidFileFormat":                        h.GUIDFileFormat.String(),
		"ffvLastCodeThatWroteToThisFile":        h.FfvLastCodeThatWroteToThisFile,
		"ffvOldestCodeThatHasWrittenToThisFile": h.FfvOldestCodeThatHasWrittenToThisFile,
		"ffvNewestCodeThatHasWrittenToThisFile": h.FfvNewestCodeThatHasWrittenToThisFile,
		"ffvOldestCodeThatMayReadThisFile":      h.FfvOldestCodeThatMayReadThisFile,
		"cTransactionsInLog":                    h.CTransactionsInLog,
		"cbLegacyExpectedFileLength":            h.CbLegacyExpectedFileLength,
		"rgbPlaceholder":                        h.RgbPlaceholder,
		"cbLegacyFreeSpaceInFreeChunkList":      h.CbLegacyFreeSpaceInFreeChunkList,
		"fNeedsDefrag":                          h.FNeedsDefrag,
		"fRepairedFile":                         h.FRepairedFile,
		"fNeedsGarbageCollect":                  h.FNeedsGarbageCollect,
		"fHasNoEmbeddedFileObjects":             h.FHasNoEmbeddedFileObjects,
		"guidAncestor":                          h.GUIDAncestor.String(),
		"crcName":                               h.CrcName,
		"fcrHashedChunkList":                    h.FcrHashedChunkList.String(),
		"fcrTransactionLog":                     h.FcrTransactionLog.String(),
		"fcrFileNodeListRoot":                   h.FcrFileNodeListRoot.String(),
		"fcrFreeChunkList":                      h.FcrFreeChunkList.String(),
		"cbExpectedFileLength":                  h.CbExpectedFileLength,
		"cbFreeSpaceInFreeChunkList":            h.CbFreeSpaceInFreeChunkList,
		"guidFileVersion":                       h.GUIDFileVersion.String(),
		"nFileVersionGeneration":                h.NFileVersionGeneration,
		"guidDenyReadFileVersion":               h.GUIDDenyReadFileVersion.String(),
		"grfDebugLogFlags":                      h.GrfDebugLogFlags,
		"buildNumberCreated":                    h.BnCreated,
		"buildNumberLastWroteToFile":            h.BnLastWroteToThisFile,
		"buildNumberOldestWritten":              h.BnOldestWritten,
		"buildNumberNewestWritten":              h.BnNewestWritten,
	}
}

// describePayload renders the id-specific fields of a node, or nil when the
// payload carries nothing beyond the node's identity.
func describePayload(p onestore.Payload) Structure {
	switch p := p.(type) {
	case *onestore.RevisionManifestListStart:
		return Structure{"nInstance": p.NInstance}
	case *onestore.RevisionManifestStart:
		s := Structure{
			"rid":          p.RID.String(),
			"ridDependent": p.Dependent.String(),
			"revisionRole": p.RevisionRole,
			"odcsDefault":  p.Odcs,
			"timeCreation": p.TimeCreation,
		}
		if p.HasContext {
			s["gctxid"] = p.Context.String()
		}
		return s
	case *onestore.GlobalIDTableEntry:
		return Structure{"index": p.Index, "guid": p.GUID.String()}
	case *onestore.GlobalIDTableEntry2:
		return Structure{"iIndexMapFrom": p.IndexMapFrom, "iIndexMapTo": p.IndexMapTo}
	case *onestore.GlobalIDTableEntry3:
		return Structure{
			"iIndexCopyFromStart": p.IndexCopyFromStart,
			"cEntriesToCopy":      p.EntriesToCopy,
			"iIndexCopyToStart":   p.IndexCopyToStart,
		}
	case *onestore.ObjectDeclaration:
		return Structure{
			"compactId":          p.CompactID.Pack(),
			"jcid":               p.JCID.String(),
			"cRef":               p.CRef,
			"fHasOidReferences":  p.HasOIDRef,
			"fHasOsidReferences": p.HasOSID,
		}
	case *onestore.ObjectRevision:
		return Structure{
			"compactId":          p.CompactID.Pack(),
			"cRef":               p.CRef,
			"fHasOidReferences":  p.HasOIDRef,
			"fHasOsidReferences": p.HasOSID,
		}
	case *onestore.RootObjectReference:
		return Structure{"oidRoot": p.Root.String(), "rootRole": p.RootRole}
	case *onestore.RevisionRoleDeclaration:
		s := Structure{"rid": p.RID.String(), "revisionRole": p.RevisionRole}
		if p.HasContext {
			s["gctxid"] = p.Context.String()
		}
		return s
	case *onestore.FileDataDeclaration:
		return Structure{
			"compactId":         p.CompactID.Pack(),
			"jcid":              p.JCID.String(),
			"cRef":              p.CRef,
			"fileDataReference": p.Reference,
			"extension":         p.Extension,
		}
	case *onestore.ObjectInfoDependencyOverrides:
		overrides := make([]Structure, 0, len(p.Overrides))
		for _, o := range p.Overrides {
			e := Structure{"compactId": o.Object.CompactID.Pack(), "cRef": o.CRef}
			if o.Object.Resolved {
				e["oid"] = o.Object.OID.String()
			}
			overrides = append(overrides, e)
		}
		return Structure{"overrides": overrides, "crc": p.Crc}
	case *onestore.DataSignatureGroupDefinition:
		return Structure{"dataSignatureGroup": p.DataSignatureGroup.String()}
	case *onestore.FileDataStoreObject:
		return Structure{"guidReference": p.GUIDReference.String(), "fileData": p.Data.String()}
	case *onestore.ObjectGroupListRef:
		return Structure{"objectGroupId": p.ObjectGroup.String()}
	case *onestore.ObjectGroupStart:
		return Structure{"objectGroupId": p.ObjectGroup.String()}
	case *onestore.HashedChunkDescriptor:
		return Structure{"guidHash": hex.EncodeToString(p.Hash[:])}
	}
	return nil
}
