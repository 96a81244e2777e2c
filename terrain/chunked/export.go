// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package chunked

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.Config{
	EscapeHTML:                    false,
	SortMapKeys:                   true,
	ObjectFieldMustBeSimpleString: true,
	CaseSensitive:                 true,
}.Froze()

// Export is the JSON layout written by Store.Export.
type Export struct {
	Seed         int64         `json:"seed"`
	ChunkWidth   int           `json:"chunkWidth"`
	PointSpacing int           `json:"pointSpacing"`
	Chunks       []ExportChunk `json:"chunks"`
}

type ExportChunk struct {
	Index    int       `json:"index"`
	Start    float32   `json:"start"`
	Raw      []float32 `json:"raw"`
	Smoothed []Sample  `json:"smoothed,omitempty"`
}

// Export writes every resident chunk, in ascending index order, as JSON.
// It is a debugging dump; nothing reads it back into a Store.
func (s *Store) Export(w io.Writer) error {
	doc := Export{
		Seed:         s.config.Seed,
		ChunkWidth:   s.config.ChunkWidth,
		PointSpacing: s.config.PointSpacing,
		Chunks:       make([]ExportChunk, 0, len(s.chunks)),
	}

	for _, index := range s.Indices() {
		c := s.chunks[index]
		doc.Chunks = append(doc.Chunks, ExportChunk{
			Index:    c.index,
			Start:    c.Start(),
			Raw:      c.raw,
			Smoothed: c.smoothed,
		})
	}

	return json.NewEncoder(w).Encode(&doc)
}
