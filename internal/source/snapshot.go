package source

import (
	"bytes"
	"fmt"
	"maps"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/roach88/tabsrc/internal/table"
)

const snapshotVersion = 1

// snapshot is the persisted form of a Source.
type snapshot struct {
	Version      int               `msgpack:"version"`
	ID           string            `msgpack:"id"`
	Query        string            `msgpack:"query,omitempty"`
	Types        map[string]string `msgpack:"types,omitempty"`
	Subtypes     map[string]string `msgpack:"subtypes,omitempty"`
	Materialized bool              `msgpack:"materialized"`
	Columns      []string          `msgpack:"columns,omitempty"`
	Rows         []map[string]any  `msgpack:"rows,omitempty"`
	ColumnMap    map[string]string `msgpack:"column_map,omitempty"`
	Probed       map[string]string `msgpack:"probed,omitempty"`
}

// Snapshot serializes the source's query, declared types and cached state
// as zstd-compressed MessagePack.
//
// The adapter is not part of the snapshot; Restore takes a new one.
func (s *Source) Snapshot() ([]byte, error) {
	snap := snapshot{
		Version:  snapshotVersion,
		ID:       s.id.String(),
		Query:    s.query,
		Types:    s.types,
		Subtypes: s.subtypes,
		Probed:   s.probed,
	}
	if s.state != nil {
		snap.Materialized = true
		snap.Columns = s.state.rows.Columns()
		snap.ColumnMap = s.state.columnMap
		snap.Rows = make([]map[string]any, 0, s.state.rows.Len())
		for _, r := range s.state.rows.All() {
			snap.Rows = append(snap.Rows, r)
		}
	}

	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	defer enc.Close()

	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Restore rebuilds a Source from Snapshot output.
//
// A snapshot taken after materialization restores the cached rows, so the
// new adapter is only consulted for pushdown or after Reset. Options are
// applied after the snapshot's own query; pass WithQuery to override it.
func Restore(data []byte, adapter Adapter, opts ...Option) (*Source, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}

	var snap snapshot
	md := msgpack.NewDecoder(bytes.NewReader(raw))
	md.UseLooseInterfaceDecoding(true)
	if err := md.Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	s := New(adapter, append([]Option{WithQuery(snap.Query)}, opts...)...)
	if id, err := uuid.Parse(snap.ID); err == nil {
		s.id = id
	}
	maps.Copy(s.types, snap.Types)
	maps.Copy(s.subtypes, snap.Subtypes)
	if len(snap.Probed) > 0 {
		s.probed = table.ColumnMap(snap.Probed)
	}

	if snap.Materialized {
		rows := make([]table.Record, len(snap.Rows))
		for i, r := range snap.Rows {
			rows[i] = table.Record(r)
		}
		columnMap := table.ColumnMap(snap.ColumnMap)
		if columnMap == nil {
			columnMap = table.ColumnMap{}
		}
		s.state = &materialized{
			rows:      table.New(snap.Columns, rows),
			columnMap: columnMap,
		}
		s.probed = nil
	}

	return s, nil
}
