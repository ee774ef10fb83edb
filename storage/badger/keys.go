package badger

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/poiesic/agentspace/core"
)

// Key prefixes for different data types
const (
	agentRecordPrefix     = "agerec"
	agentNamePrefix       = "ageidxn"
	agentDocumentPrefix   = "agedoc"
	workspaceRecordPrefix = "wsprec"
	workspaceNamePrefix   = "wspidxn"
	collectionMetaPrefix  = "veccol"
	vectorRecordPrefix    = "vecrec"
	vectorFilePrefix      = "vecidxf"
)

// makeAgentKey generates a key for an agent record by ID.
func makeAgentKey(id core.AgentID) []byte {
	return []byte(fmt.Sprintf("%s:%s", agentRecordPrefix, id))
}

// makeAgentNameKey generates a key for the case-insensitive agent name index.
func makeAgentNameKey(name string) []byte {
	return []byte(fmt.Sprintf("%s:%s", agentNamePrefix, strings.ToLower(name)))
}

// makeDocumentKey generates a composite key for a stored document.
// Format: prefix:agentID:fileName
func makeDocumentKey(id core.AgentID, fileName string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", agentDocumentPrefix, id, fileName))
}

// makeDocumentScanPrefix generates the scan prefix for one agent's documents.
func makeDocumentScanPrefix(id core.AgentID) []byte {
	return []byte(fmt.Sprintf("%s:%s:", agentDocumentPrefix, id))
}

// makeWorkspaceKey generates a key for a workspace record by ID.
func makeWorkspaceKey(id core.WorkspaceID) []byte {
	return []byte(fmt.Sprintf("%s:%s", workspaceRecordPrefix, id))
}

// makeWorkspaceNameKey generates a key for the case-insensitive workspace name index.
func makeWorkspaceNameKey(name string) []byte {
	return []byte(fmt.Sprintf("%s:%s", workspaceNamePrefix, strings.ToLower(name)))
}

// makeCollectionMetaKey generates the key holding a collection's metadata.
func makeCollectionMetaKey(key core.AgentID) []byte {
	return []byte(fmt.Sprintf("%s:%s", collectionMetaPrefix, key))
}

// makeVectorRecordKey generates a composite key for a vector record.
// The record ID is written in BigEndian order so lexicographic iteration
// visits records in ascending ID order.
// Format: prefix:agentID:recordID
func makeVectorRecordKey(key core.AgentID, id core.ID) []byte {
	prefix := []byte(fmt.Sprintf("%s:%s:", vectorRecordPrefix, key))
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeVectorScanPrefix generates the scan prefix for one collection's records.
func makeVectorScanPrefix(key core.AgentID) []byte {
	return []byte(fmt.Sprintf("%s:%s:", vectorRecordPrefix, key))
}

// makeVectorFileKey generates a composite key for the file index.
// Format: prefix:agentID:len(fileName):fileName:recordID
func makeVectorFileKey(key core.AgentID, fileName string, id core.ID) []byte {
	prefix := makeVectorFileScanPrefix(key, fileName)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeVectorFileScanPrefix generates the scan prefix for one file's index
// entries. The file name is length-prefixed with a BigEndian uint32 so a
// name containing the separator cannot extend into another file's prefix.
func makeVectorFileScanPrefix(key core.AgentID, fileName string) []byte {
	head := []byte(fmt.Sprintf("%s:%s:", vectorFilePrefix, key))
	buf := make([]byte, len(head)+4+len(fileName)+1)
	offset := copy(buf, head)
	binary.BigEndian.PutUint32(buf[offset:], uint32(len(fileName)))
	offset += 4
	offset += copy(buf[offset:], fileName)
	buf[offset] = ':'
	return buf
}

// makeVectorFileCollectionPrefix generates the scan prefix covering every
// file index entry of one collection.
func makeVectorFileCollectionPrefix(key core.AgentID) []byte {
	return []byte(fmt.Sprintf("%s:%s:", vectorFilePrefix, key))
}

// recordIDFromKey extracts the trailing BigEndian record ID from a composite key.
func recordIDFromKey(key []byte) core.ID {
	if len(key) < 8 {
		return 0
	}
	return core.ID(binary.BigEndian.Uint64(key[len(key)-8:]))
}
