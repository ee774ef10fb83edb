package core

import (
	"errors"
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for persisted types. The encoding is
// field-ordered and versionless: changing a struct here requires a
// storage migration.

var errTruncated = errors.New("truncated data")

// IDMUS serializes ID values.
var IDMUS = idSer{}

type idSer struct{}

func (idSer) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idSer) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

// timeMUS encodes timestamps as Unix microseconds.
type timeMUS struct{}

func (timeMUS) Size(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

func (timeMUS) Marshal(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(v).UTC(), n, nil
}

var timeSer = timeMUS{}

// vectorMUS encodes []float32 as a length-prefixed run of IEEE 754 bit patterns.
type vectorMUS struct{}

func (vectorMUS) Size(v []float32) int {
	size := varint.Int.Size(len(v))
	for _, f := range v {
		size += varint.Uint32.Size(math.Float32bits(f))
	}
	return size
}

func (vectorMUS) Marshal(v []float32, bs []byte) int {
	n := varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Uint32.Marshal(math.Float32bits(f), bs[n:])
	}
	return n
}

func (vectorMUS) Unmarshal(bs []byte) ([]float32, int, error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length < 0 {
		return nil, n, errTruncated
	}
	v := make([]float32, length)
	for i := 0; i < length; i++ {
		bits, m, err := varint.Uint32.Unmarshal(bs[n:])
		if err != nil {
			return nil, n + m, err
		}
		n += m
		v[i] = math.Float32frombits(bits)
	}
	return v, n, nil
}

var vectorSer = vectorMUS{}

// bytesMUS encodes a length-prefixed raw byte slice.
type bytesMUS struct{}

func (bytesMUS) Size(b []byte) int {
	return varint.Int.Size(len(b)) + len(b)
}

func (bytesMUS) Marshal(b []byte, bs []byte) int {
	n := varint.Int.Marshal(len(b), bs)
	n += copy(bs[n:], b)
	return n
}

func (bytesMUS) Unmarshal(bs []byte) ([]byte, int, error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length < 0 || n+length > len(bs) {
		return nil, n, errTruncated
	}
	b := make([]byte, length)
	copy(b, bs[n:n+length])
	return b, n + length, nil
}

var bytesSer = bytesMUS{}

// VectorRecordMUS serializes VectorRecord values.
var VectorRecordMUS = vectorRecordSer{}

type vectorRecordSer struct{}

func (vectorRecordSer) Size(r VectorRecord) int {
	return IDMUS.Size(r.Id) +
		ord.String.Size(r.FileName) +
		vectorSer.Size(r.Vector) +
		ord.String.Size(r.Text) +
		ord.String.Size(r.Description) +
		timeSer.Size(r.InsertedAt)
}

func (vectorRecordSer) Marshal(r VectorRecord, bs []byte) int {
	n := IDMUS.Marshal(r.Id, bs)
	n += ord.String.Marshal(r.FileName, bs[n:])
	n += vectorSer.Marshal(r.Vector, bs[n:])
	n += ord.String.Marshal(r.Text, bs[n:])
	n += ord.String.Marshal(r.Description, bs[n:])
	n += timeSer.Marshal(r.InsertedAt, bs[n:])
	return n
}

func (vectorRecordSer) Unmarshal(bs []byte) (r VectorRecord, n int, err error) {
	var m int
	if r.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if r.FileName, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.Vector, m, err = vectorSer.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.Text, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.Description, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.InsertedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	return r, n, nil
}

// AgentMUS serializes Agent values.
var AgentMUS = agentSer{}

type agentSer struct{}

func (agentSer) Size(a Agent) int {
	return ord.String.Size(string(a.ID)) +
		ord.String.Size(a.Name) +
		ord.String.Size(a.Description) +
		ord.String.Size(a.MetaPrompt) +
		ord.Bool.Size(a.Knowledge) +
		timeSer.Size(a.InsertedAt) +
		timeSer.Size(a.UpdatedAt)
}

func (agentSer) Marshal(a Agent, bs []byte) int {
	n := ord.String.Marshal(string(a.ID), bs)
	n += ord.String.Marshal(a.Name, bs[n:])
	n += ord.String.Marshal(a.Description, bs[n:])
	n += ord.String.Marshal(a.MetaPrompt, bs[n:])
	n += ord.Bool.Marshal(a.Knowledge, bs[n:])
	n += timeSer.Marshal(a.InsertedAt, bs[n:])
	n += timeSer.Marshal(a.UpdatedAt, bs[n:])
	return n
}

func (agentSer) Unmarshal(bs []byte) (a Agent, n int, err error) {
	var (
		m  int
		id string
	)
	if id, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	a.ID = AgentID(id)
	if a.Name, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.Description, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.MetaPrompt, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.Knowledge, m, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.InsertedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	if a.UpdatedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return a, n + m, err
	}
	n += m
	return a, n, nil
}

// WorkspaceMUS serializes Workspace values.
var WorkspaceMUS = workspaceSer{}

type workspaceSer struct{}

func (workspaceSer) Size(w Workspace) int {
	size := ord.String.Size(string(w.ID)) +
		ord.String.Size(w.Name) +
		varint.Int.Size(len(w.AgentIDs))
	for _, id := range w.AgentIDs {
		size += ord.String.Size(string(id))
	}
	size += timeSer.Size(w.InsertedAt)
	size += timeSer.Size(w.UpdatedAt)
	return size
}

func (workspaceSer) Marshal(w Workspace, bs []byte) int {
	n := ord.String.Marshal(string(w.ID), bs)
	n += ord.String.Marshal(w.Name, bs[n:])
	n += varint.Int.Marshal(len(w.AgentIDs), bs[n:])
	for _, id := range w.AgentIDs {
		n += ord.String.Marshal(string(id), bs[n:])
	}
	n += timeSer.Marshal(w.InsertedAt, bs[n:])
	n += timeSer.Marshal(w.UpdatedAt, bs[n:])
	return n
}

func (workspaceSer) Unmarshal(bs []byte) (w Workspace, n int, err error) {
	var (
		m  int
		id string
	)
	if id, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	w.ID = WorkspaceID(id)
	if w.Name, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return w, n + m, err
	}
	n += m
	var count int
	if count, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return w, n + m, err
	}
	n += m
	if count < 0 {
		return w, n, errTruncated
	}
	w.AgentIDs = make([]AgentID, 0, count)
	for i := 0; i < count; i++ {
		if id, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return w, n + m, err
		}
		n += m
		w.AgentIDs = append(w.AgentIDs, AgentID(id))
	}
	if w.InsertedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return w, n + m, err
	}
	n += m
	if w.UpdatedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return w, n + m, err
	}
	n += m
	return w, n, nil
}

// DocumentMUS serializes KnowledgeDocument values.
var DocumentMUS = documentSer{}

type documentSer struct{}

func (documentSer) Size(d KnowledgeDocument) int {
	return ord.String.Size(d.FileName) +
		ord.String.Size(d.ContentType) +
		bytesSer.Size(d.RawBytes) +
		varint.Int64.Size(d.SizeBytes) +
		timeSer.Size(d.UploadedAt)
}

func (documentSer) Marshal(d KnowledgeDocument, bs []byte) int {
	n := ord.String.Marshal(d.FileName, bs)
	n += ord.String.Marshal(d.ContentType, bs[n:])
	n += bytesSer.Marshal(d.RawBytes, bs[n:])
	n += varint.Int64.Marshal(d.SizeBytes, bs[n:])
	n += timeSer.Marshal(d.UploadedAt, bs[n:])
	return n
}

func (documentSer) Unmarshal(bs []byte) (d KnowledgeDocument, n int, err error) {
	var m int
	if d.FileName, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if d.ContentType, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.RawBytes, m, err = bytesSer.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.SizeBytes, m, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	if d.UploadedAt, m, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return d, n + m, err
	}
	n += m
	return d, n, nil
}
